package repo

import (
	"context"

	"gorm.io/gorm"

	"gistsync-api/internal/domain"
)

type LookupRepo struct{ db *gorm.DB }

func NewLookupRepo(db *gorm.DB) *LookupRepo { return &LookupRepo{db: db} }

var _ domain.LookupRepository = (*LookupRepo)(nil)

func (r *LookupRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	var ms []CategoryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Category{ID: m.ID, Title: m.Title})
	}
	return out, nil
}

func (r *LookupRepo) FileTypes(ctx context.Context) ([]domain.FileType, error) {
	var ms []FileTypeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FileType, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.FileType{ID: m.ID, Title: m.Title, Extension: m.Extension, CategoriesID: m.CategoriesID})
	}
	return out, nil
}

func (r *LookupRepo) Files(ctx context.Context) ([]domain.File, error) {
	var ms []FileModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.File, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.File{ID: m.ID, Title: m.Title, FileTypesID: m.FileTypesID, Body: m.Body})
	}
	return out, nil
}
