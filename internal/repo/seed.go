package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gistsync-api/internal/domain"
)

// DemoHashedPwd 演示账号的默认密码哈希
const DemoHashedPwd = "$2b$10$fn09RI9qU6OHe6/89oNMn.q/VshQc8V3kzg6x81XvtNJYLUnSd79W"

type SeedData struct {
	Demo       domain.User
	Categories []domain.Category
	FileTypes  []domain.FileType
	Files      []domain.File
}

func intp(v int) *int { return &v }

func DefaultSeed(demoID, gistID string, now time.Time) SeedData {
	return SeedData{
		Demo: domain.User{
			ID:        demoID,
			GistID:    gistID,
			Email:     "jballin@fake.com",
			Username:  "JBallin",
			HashedPwd: DemoHashedPwd,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Categories: []domain.Category{
			{ID: 1, Title: "Shell"},
			{ID: 2, Title: "Editor"},
			{ID: 3, Title: "Version control"},
		},
		FileTypes: []domain.FileType{
			{ID: 1, Title: "Bash", Extension: "bashrc", CategoriesID: intp(1)},
			{ID: 2, Title: "Zsh", Extension: "zshrc", CategoriesID: intp(1)},
			{ID: 3, Title: "Vim", Extension: "vimrc", CategoriesID: intp(2)},
			{ID: 4, Title: "Git", Extension: "gitconfig", CategoriesID: intp(3)},
		},
		Files: []domain.File{
			{ID: 1, Title: "aliases", FileTypesID: intp(1), Body: "alias ll='ls -la'\n"},
		},
	}
}

// Seed 幂等写入：已存在的行保持不变
func Seed(ctx context.Context, db *gorm.DB, s SeedData) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip := clause.OnConflict{DoNothing: true}
		demo := toUserModel(&s.Demo)
		if err := tx.Clauses(skip).Create(&demo).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		for _, c := range s.Categories {
			m := CategoryModel{ID: c.ID, Title: c.Title}
			if err := tx.Clauses(skip).Create(&m).Error; err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
		for _, ft := range s.FileTypes {
			m := FileTypeModel{ID: ft.ID, Title: ft.Title, Extension: ft.Extension, CategoriesID: ft.CategoriesID}
			if err := tx.Clauses(skip).Create(&m).Error; err != nil {
				return fmt.Errorf("seed file_types: %w", err)
			}
		}
		for _, f := range s.Files {
			m := FileModel{ID: f.ID, Title: f.Title, FileTypesID: f.FileTypesID, Body: f.Body}
			if err := tx.Clauses(skip).Create(&m).Error; err != nil {
				return fmt.Errorf("seed files: %w", err)
			}
		}
		return nil
	})
}

// Memory 用种子数据构造进程内仓储
func (s SeedData) Memory() (*MemoryUserRepo, *MemoryLookupRepo) {
	return NewMemoryUserRepo(s.Demo), &MemoryLookupRepo{Cats: s.Categories, Types: s.FileTypes, All: s.Files}
}
