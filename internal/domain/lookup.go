package domain

import "context"

type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type FileType struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Extension    string `json:"extension"`
	CategoriesID *int   `json:"categories_id"`
}

type File struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	FileTypesID *int   `json:"file_types_id"`
	Body        string `json:"body"`
}

type LookupRepository interface {
	Categories(ctx context.Context) ([]Category, error)
	FileTypes(ctx context.Context) ([]FileType, error)
	Files(ctx context.Context) ([]File, error)
}
