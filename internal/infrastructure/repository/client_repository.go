package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	domainRepo "github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return duplicateDNI(r.db.WithContext(ctx).Create(client).Error)
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByDNI(ctx context.Context, dni string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "dni = ?", dni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Client, error) {
	if len(ids) == 0 {
		return []entity.Client{}, nil
	}
	var clients []entity.Client
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error
	return clients, err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return duplicateDNI(r.db.WithContext(ctx).Save(client).Error)
}

// duplicateDNI maps a hit on idx_clients_dni_live, the only unique index on
// clients besides the primary key
func duplicateDNI(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateDNI
	}
	return err
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Client{}, "id = ?", id).Error
}

func (r *clientRepository) filtered(ctx context.Context, search string, status *enum.ClientStatus) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(SearchScope(search, "name", "dni", "phone"))
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}

func (r *clientRepository) List(ctx context.Context, params *domainRepo.ClientFilterParams) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.filtered(ctx, params.Search, params.Status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("registered_at DESC, id DESC").
		Find(&clients).Error

	return clients, total, err
}

// ListWithCursor returns clients newest registration first using keyset pagination
func (r *clientRepository) ListWithCursor(ctx context.Context, params *domainRepo.ClientCursorFilterParams) ([]entity.Client, error) {
	var clients []entity.Client

	query, reverse, err := applyKeyset(r.filtered(ctx, params.Search, params.Status), "registered_at", params.Cursor)
	if err != nil {
		return nil, err
	}

	// Fetch limit+1 to detect hasMore
	if err := query.Limit(params.Cursor.Limit + 1).Find(&clients).Error; err != nil {
		return nil, err
	}
	if reverse {
		reverseInPlace(clients)
	}
	return clients, nil
}

func (r *clientRepository) Stats(ctx context.Context, monthStart time.Time) (*domainRepo.ClientStats, error) {
	var rows []struct {
		Status enum.ClientStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Client{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &domainRepo.ClientStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case enum.ClientStatusActive:
			stats.Active = row.Count
		case enum.ClientStatusInactive:
			stats.Inactive = row.Count
		}
	}

	err = r.db.WithContext(ctx).Model(&entity.Client{}).
		Where("registered_at >= ?", monthStart.UTC()).
		Count(&stats.NewThisMonth).Error
	return stats, err
}
