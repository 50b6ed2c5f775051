package repo

import (
	"time"

	"gistsync-api/internal/domain"
)

// 时间戳由业务层写入，关闭 gorm 自动维护
type UserModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	GistID    string    `gorm:"column:gist_id;uniqueIndex;size:191;not null"`
	Name      *string   `gorm:"size:255"`
	Email     string    `gorm:"uniqueIndex;size:191;not null"`
	Username  string    `gorm:"uniqueIndex;size:36;not null"`
	HashedPwd string    `gorm:"column:hashed_pwd;size:100;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (UserModel) TableName() string { return "users" }

func toUserModel(u *domain.User) UserModel {
	return UserModel{
		ID: u.ID, GistID: u.GistID, Name: u.Name, Email: u.Email, Username: u.Username,
		HashedPwd: u.HashedPwd, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID: m.ID, GistID: m.GistID, Name: m.Name, Email: m.Email, Username: m.Username,
		HashedPwd: m.HashedPwd, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type CategoryModel struct {
	ID    int    `gorm:"primaryKey;autoIncrement"`
	Title string `gorm:"size:255;not null"`
}

func (CategoryModel) TableName() string { return "categories" }

type FileTypeModel struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	Title        string `gorm:"size:255;not null"`
	Extension    string `gorm:"size:64;default:''"`
	CategoriesID *int   `gorm:"column:categories_id;index"`
}

func (FileTypeModel) TableName() string { return "file_types" }

type FileModel struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:255;not null"`
	FileTypesID *int   `gorm:"column:file_types_id;index"`
	Body        string `gorm:"type:text"`
}

func (FileModel) TableName() string { return "files" }

// Models AutoMigrate 使用
func Models() []any {
	return []any{&UserModel{}, &CategoryModel{}, &FileTypeModel{}, &FileModel{}}
}
