package service

import (
	"context"
	"errors"
	"strings"

	"purchases/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogStore 类别/商品目录，按名称解析 ID，不存在时创建
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore 创建目录存储
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ResolveCategory 返回类别 ID，不存在则创建
// 名称大小写不敏感；并发的相同调用不会报错（insert-or-ignore）
func (s *CatalogStore) ResolveCategory(ctx context.Context, name string) (uint, error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, invalid("category", "类别不能为空")
	}

	db := s.db.WithContext(ctx)
	cat := models.Category{Name: name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cat).Error; err != nil {
		return 0, persistErr("创建类别", err)
	}

	var found models.Category
	if err := db.Where("name = ?", name).Take(&found).Error; err != nil {
		return 0, persistErr("查询类别", err)
	}
	return found.ID, nil
}

// ResolveItem 返回商品 ID，不存在则以 categoryID 创建
// 商品名称全局唯一：已存在的商品直接返回原 ID，不会改动其类别
func (s *CatalogStore) ResolveItem(ctx context.Context, name string, categoryID uint) (id uint, created bool, err error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, false, invalid("item", "商品名称不能为空")
	}

	db := s.db.WithContext(ctx)
	var found models.Item
	err = db.Where("name = ?", name).Take(&found).Error
	if err == nil {
		return found.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, persistErr("查询商品", err)
	}

	item := models.Item{Name: name, CategoryID: categoryID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
	if res.Error != nil {
		return 0, false, persistErr("创建商品", res.Error)
	}

	if err := db.Where("name = ?", name).Take(&found).Error; err != nil {
		return 0, false, persistErr("查询商品", err)
	}
	return found.ID, res.RowsAffected > 0, nil
}

// LookupCategoryName 根据 ID 查询类别名称
func (s *CatalogStore) LookupCategoryName(ctx context.Context, id uint) (string, bool, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Take(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, persistErr("查询类别", err)
	}
	return cat.Name, true, nil
}

// LookupItemName 根据 ID 查询商品名称
func (s *CatalogStore) LookupItemName(ctx context.Context, id uint) (string, bool, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Take(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, persistErr("查询商品", err)
	}
	return item.Name, true, nil
}

// ListCategories 列出所有类别，按名称排序
func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, persistErr("查询类别", err)
	}
	return list, nil
}

// SearchItems 按名称前缀查找商品（输入联想），prefix 为空时返回前 limit 个
func (s *CatalogStore) SearchItems(ctx context.Context, prefix string, limit int) ([]models.ItemWithCategory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := s.db.WithContext(ctx).Table("items").
		Select("items.id, items.name, items.category_id, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = items.category_id")

	if prefix = NormalizeName(prefix); prefix != "" {
		query = query.Where("items.name LIKE ? ESCAPE '!'", escapeLike(prefix)+"%")
	}

	var list []models.ItemWithCategory
	if err := query.Order("items.name ASC").Limit(limit).Scan(&list).Error; err != nil {
		return nil, persistErr("查询商品", err)
	}
	return list, nil
}

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '!' 使用，防止用户输入改变匹配语义
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	s = strings.ReplaceAll(s, "_", "!_")
	return s
}
