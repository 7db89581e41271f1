package service

import (
	"context"
	"errors"

	"purchases/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger 用户购买记录
type Ledger struct {
	db *gorm.DB
}

// NewLedger 创建购买记录存储
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Append 新增一条购买记录
// 相同 (用户, 商品, 日期, 价格) 的记录已存在时不会重复插入，返回已有记录的 ID
func (l *Ledger) Append(ctx context.Context, userID, itemID uint, date int64, price decimal.Decimal) (uint, error) {
	entry := models.History{UserID: userID, ItemID: itemID, Date: date, Price: price}
	res := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return 0, persistErr("新增购买记录", res.Error)
	}
	if res.RowsAffected > 0 && entry.ID != 0 {
		return entry.ID, nil
	}

	id, ok, err := l.FindDuplicate(ctx, userID, itemID, date, price, 0)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &PersistenceError{Op: "新增购买记录", Err: errors.New("记录未写入")}
	}
	return id, nil
}

// FindDuplicate 查找与给定内容相同的记录，excludeID 不为 0 时跳过该记录
func (l *Ledger) FindDuplicate(ctx context.Context, userID, itemID uint, date int64, price decimal.Decimal, excludeID uint) (uint, bool, error) {
	query := l.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND t_date = ?", userID, itemID, date)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var candidates []models.History
	if err := query.Order("id ASC").Find(&candidates).Error; err != nil {
		return 0, false, persistErr("查询购买记录", err)
	}
	// 价格在 Go 侧按数值比较
	for _, h := range candidates {
		if h.Price.Equal(price) {
			return h.ID, true, nil
		}
	}
	return 0, false, nil
}

// Get 查询单条购买记录
func (l *Ledger) Get(ctx context.Context, historyID uint) (*models.History, error) {
	var entry models.History
	err := l.db.WithContext(ctx).Take(&entry, historyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, persistErr("查询购买记录", err)
	}
	return &entry, nil
}

// Update 原地更新购买记录的商品、日期和价格
// 不校验记录归属，调用方负责鉴权
func (l *Ledger) Update(ctx context.Context, historyID, itemID uint, date int64, price decimal.Decimal) error {
	err := l.db.WithContext(ctx).Model(&models.History{}).
		Where("id = ?", historyID).
		Updates(map[string]interface{}{
			"item_id": itemID,
			"t_date":  date,
			"price":   price,
		}).Error
	return persistErr("更新购买记录", err)
}

// Remove 删除购买记录，记录不存在时什么也不做
func (l *Ledger) Remove(ctx context.Context, historyID uint) error {
	err := l.db.WithContext(ctx).Where("id = ?", historyID).Delete(&models.History{}).Error
	return persistErr("删除购买记录", err)
}

// RemoveAllForUser 删除用户的全部购买记录（注销账户时使用）
func (l *Ledger) RemoveAllForUser(ctx context.Context, userID uint) error {
	err := l.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.History{}).Error
	return persistErr("删除购买记录", err)
}

// ListForUser 用户全部购买记录，按日期倒序
func (l *Ledger) ListForUser(ctx context.Context, userID uint) ([]models.PurchaseView, error) {
	var views []models.PurchaseView
	err := l.viewQuery(ctx).
		Where("history.user_id = ?", userID).
		Order("history.t_date DESC, history.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, persistErr("查询购买记录", err)
	}
	return views, nil
}

// ListForUserAndItem 用户某个商品的购买记录，按日期倒序
func (l *Ledger) ListForUserAndItem(ctx context.Context, userID, itemID uint) ([]models.PurchaseView, error) {
	var views []models.PurchaseView
	err := l.viewQuery(ctx).
		Where("history.user_id = ? AND history.item_id = ?", userID, itemID).
		Order("history.t_date DESC, history.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, persistErr("查询购买记录", err)
	}
	return views, nil
}

func (l *Ledger) viewQuery(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).Table("history").
		Select("history.id AS history_id, items.id AS item_id, items.name AS item_name, " +
			"categories.name AS category_name, history.price AS price, history.t_date AS date, users.username AS username").
		Joins("JOIN users ON users.id = history.user_id").
		Joins("JOIN items ON items.id = history.item_id").
		Joins("JOIN categories ON categories.id = items.category_id")
}
