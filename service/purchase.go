package service

import (
	"context"
	"time"

	"purchases/models"

	"gorm.io/gorm"
)

// Actor 当前请求的身份，由认证中间件解析后显式传入，业务层只读
type Actor struct {
	UserID   uint
	Username string
}

// EditKind 编辑结果类型
type EditKind string

const (
	// EditUpdated 原记录被原地更新
	EditUpdated EditKind = "updated"
	// EditReplaced 原记录被删除，由 HistoryID 指向的记录取代
	EditReplaced EditKind = "replaced"
)

// EditResult 编辑购买记录的结果
type EditResult struct {
	Kind      EditKind `json:"kind"`
	HistoryID uint     `json:"history_id"`
}

// ItemStats 单个商品的购买记录与平均购买间隔
type ItemStats struct {
	Selected    models.PurchaseView   `json:"selected"`
	Entries     []models.PurchaseView `json:"entries"`
	AverageDays int                   `json:"avg_days"`
}

// PurchaseService 将自由输入的购买信息映射到共享目录和用户购买记录
// 每次提交中的所有写操作在同一事务内完成
type PurchaseService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewPurchaseService 创建购买记录服务，日期按本地时区解析
func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db, loc: time.Local}
}

// WithLocation 返回使用指定时区解析日期的副本
func (s *PurchaseService) WithLocation(loc *time.Location) *PurchaseService {
	cp := *s
	cp.loc = loc
	return &cp
}

// Location 解析和展示日期使用的时区
func (s *PurchaseService) Location() *time.Location {
	return s.loc
}

// RecordPurchase 记录一次新的购买，返回购买记录 ID
// 类别和商品不存在时自动创建；完全相同的重复提交返回已有记录的 ID
func (s *PurchaseService) RecordPurchase(ctx context.Context, actor Actor, in PurchaseInput) (uint, error) {
	p, err := parsePurchase(in, s.loc)
	if err != nil {
		return 0, err
	}

	var historyID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, actor.UserID); err != nil {
			return err
		}
		catalog := NewCatalogStore(tx)
		ledger := NewLedger(tx)

		itemID, err := resolve(ctx, catalog, p)
		if err != nil {
			return err
		}
		historyID, err = ledger.Append(ctx, actor.UserID, itemID, p.date, p.price)
		return err
	})
	if err != nil {
		return 0, persistErr("记录购买", err)
	}
	return historyID, nil
}

// EditPurchase 修改一条购买记录
// 商品名称不变时原地更新；商品改变时新增一条记录并删除原记录
func (s *PurchaseService) EditPurchase(ctx context.Context, actor Actor, historyID uint, in PurchaseInput) (*EditResult, error) {
	p, err := parsePurchase(in, s.loc)
	if err != nil {
		return nil, err
	}

	var result *EditResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(ctx, tx, actor.UserID); err != nil {
			return err
		}
		catalog := NewCatalogStore(tx)
		ledger := NewLedger(tx)

		entry, err := ledger.Get(ctx, historyID)
		if err != nil {
			return err
		}
		currentName, _, err := catalog.LookupItemName(ctx, entry.ItemID)
		if err != nil {
			return err
		}

		itemID, err := resolve(ctx, catalog, p)
		if err != nil {
			return err
		}

		if p.item == currentName {
			// 修改后与该用户的另一条记录完全相同，则合并到那一条
			dupID, found, err := ledger.FindDuplicate(ctx, entry.UserID, itemID, p.date, p.price, entry.ID)
			if err != nil {
				return err
			}
			if found {
				if err := ledger.Remove(ctx, entry.ID); err != nil {
					return err
				}
				result = &EditResult{Kind: EditReplaced, HistoryID: dupID}
				return nil
			}
			if err := ledger.Update(ctx, entry.ID, itemID, p.date, p.price); err != nil {
				return err
			}
			result = &EditResult{Kind: EditUpdated, HistoryID: entry.ID}
			return nil
		}

		newID, err := ledger.Append(ctx, actor.UserID, itemID, p.date, p.price)
		if err != nil {
			return err
		}
		if err := ledger.Remove(ctx, entry.ID); err != nil {
			return err
		}
		result = &EditResult{Kind: EditReplaced, HistoryID: newID}
		return nil
	})
	if err != nil {
		return nil, persistErr("修改购买记录", err)
	}
	return result, nil
}

// DeletePurchase 删除购买记录；记录不存在时视为成功
// 不删除类别和商品
func (s *PurchaseService) DeletePurchase(ctx context.Context, actor Actor, historyID uint) error {
	return NewLedger(s.db).Remove(ctx, historyID)
}

// GetUserHistory 当前用户全部购买记录，最近的在前
func (s *PurchaseService) GetUserHistory(ctx context.Context, actor Actor) ([]models.PurchaseView, error) {
	return NewLedger(s.db).ListForUser(ctx, actor.UserID)
}

// GetItemHistoryAndStats 以某条购买记录所属的商品为准，返回当前用户该商品的全部记录和平均购买间隔
func (s *PurchaseService) GetItemHistoryAndStats(ctx context.Context, actor Actor, historyID uint) (*ItemStats, error) {
	ledger := NewLedger(s.db)

	entry, err := ledger.Get(ctx, historyID)
	if err != nil {
		return nil, err
	}
	entries, err := ledger.ListForUserAndItem(ctx, actor.UserID, entry.ItemID)
	if err != nil {
		return nil, err
	}

	for _, v := range entries {
		if v.HistoryID == historyID {
			return &ItemStats{
				Selected:    v,
				Entries:     entries,
				AverageDays: AverageIntervalForViews(entries),
			}, nil
		}
	}
	// 记录属于其他用户
	return nil, ErrHistoryNotFound
}

// ensureUser 已注销用户的 token 在过期前仍可通过认证，写入前确认用户存在
func ensureUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return persistErr("查询用户", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// resolve 依次解析类别和商品；商品已存在时沿用其原有类别
func resolve(ctx context.Context, catalog *CatalogStore, p *parsedPurchase) (uint, error) {
	categoryID, err := catalog.ResolveCategory(ctx, p.category)
	if err != nil {
		return 0, err
	}
	itemID, _, err := catalog.ResolveItem(ctx, p.item, categoryID)
	return itemID, err
}
