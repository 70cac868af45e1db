package db

import (
	"context"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) Delete(ctx context.Context, userID uint, alertID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).Delete(&alertModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) ListDistinctActiveKeys(ctx context.Context) ([]domain.QuoteKey, error) {
	var rows []struct {
		Market string
		Pair   string
	}
	if err := r.db.WithContext(ctx).
		Model(&alertModel{}).
		Distinct("market", "pair").
		Where("triggered_at IS NULL").
		Order("market, pair").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	keys := make([]domain.QuoteKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, domain.QuoteKey{Market: row.Market, Pair: row.Pair})
	}
	return keys, nil
}

func (r *AlertRepository) ListActiveByKey(ctx context.Context, key domain.QuoteKey) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("market = ? AND pair = ? AND triggered_at IS NULL", key.Market, key.Pair).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

// TryClaim is the compare-and-set that guarantees at-most-once triggering:
// the trigger timestamp is written only where it is still NULL, so of any
// number of concurrent claimers exactly one sees RowsAffected == 1. An id
// that is missing or soft-deleted counts as not claimed. UpdateColumn keeps
// the claim a single-column write; updated_at is not touched.
func (r *AlertRepository) TryClaim(ctx context.Context, alertID uint, triggeredAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ? AND triggered_at IS NULL", alertID).
		UpdateColumn("triggered_at", triggeredAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, mapAlertToDomain(model))
	}
	return alerts
}

func mapAlertToDomain(model alertModel) domain.Alert {
	var deleted *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deleted = &t
	}
	var base *decimal.Decimal
	if model.BasePrice.Valid {
		value := model.BasePrice.Decimal
		base = &value
	}
	return domain.Alert{
		ID:          model.ID,
		UserID:      model.UserID,
		Market:      model.Market,
		Pair:        model.Pair,
		Direction:   domain.Direction(model.Direction),
		TargetPrice: model.TargetPrice,
		BasePrice:   base,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		TriggeredAt: model.TriggeredAt,
		DeletedAt:   deleted,
	}
}

func mapAlertToModel(alert domain.Alert) alertModel {
	base := decimal.NullDecimal{}
	if alert.BasePrice != nil {
		base = decimal.NullDecimal{Decimal: *alert.BasePrice, Valid: true}
	}
	return alertModel{
		ID:          alert.ID,
		UserID:      alert.UserID,
		Market:      alert.Market,
		Pair:        alert.Pair,
		Direction:   string(alert.Direction),
		TargetPrice: alert.TargetPrice,
		BasePrice:   base,
		CreatedAt:   alert.CreatedAt,
		UpdatedAt:   alert.UpdatedAt,
		TriggeredAt: alert.TriggeredAt,
	}
}
