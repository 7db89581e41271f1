package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"purchases/models"
	"purchases/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseRouter(userID uint, username string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserMiddleware(userID, username))
	h := NewPurchaseHandler()
	router.GET("/purchases", h.List)
	router.POST("/purchases", h.Create)
	router.PUT("/purchases/:id", h.Update)
	router.DELETE("/purchases/:id", h.Delete)
	router.GET("/purchases/:id/stats", h.Stats)
	return router
}

func TestPurchaseHandler_Flow(t *testing.T) {
	setupTestConfig(t, "debug")
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	router := newPurchaseRouter(alice.ID, alice.Username)

	// 价格为数字
	w := doJSON(router, "POST", "/purchases", gin.H{"category": "Grocery", "item": "Milk", "date": "2024-01-10", "price": 3.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first CreatedResponse
	resp := decodeResponse(t, w, &first)
	assert.Equal(t, "记录成功", resp.Message)
	assert.NotZero(t, first.HistoryID)

	// 表单提交，价格为字符串
	form := url.Values{"category": {"grocery"}, "item": {"milk"}, "date": {"2024-01-17"}, "price": {"3.75"}}
	req := httptest.NewRequest("POST", "/purchases", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second CreatedResponse
	decodeResponse(t, w, &second)

	w = doJSON(router, "GET", "/purchases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history HistoryResponse
	decodeResponse(t, w, &history)
	assert.Equal(t, "alice", history.Username)
	require.Len(t, history.Purchases, 2)
	assert.Equal(t, second.HistoryID, history.Purchases[0].HistoryID)
	assert.Equal(t, "$3.75", history.Purchases[0].PriceDisplay)
	assert.Equal(t, "2024-01-17", history.Purchases[0].DateDisplay)
	assert.Equal(t, "$3.50", history.Purchases[1].PriceDisplay)
	assert.Contains(t, w.Body.String(), `"price_display":"$3.75"`)

	w = doJSON(router, "GET", fmt.Sprintf("/purchases/%d/stats", first.HistoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.ItemStats
	decodeResponse(t, w, &stats)
	assert.Equal(t, 7, stats.AverageDays)
	assert.Equal(t, first.HistoryID, stats.Selected.HistoryID)
	assert.Len(t, stats.Entries, 2)
	assert.Equal(t, "2024-01-10", stats.Selected.DateDisplay)
	assert.Equal(t, "$3.50", stats.Selected.PriceDisplay)
	assert.Equal(t, "2024-01-17", stats.Entries[0].DateDisplay)

	// 同一商品：原地更新
	w = doJSON(router, "PUT", fmt.Sprintf("/purchases/%d", first.HistoryID), gin.H{"category": "grocery", "item": "milk", "date": "2024-01-09", "price": "3.40"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edit service.EditResult
	decodeResponse(t, w, &edit)
	assert.Equal(t, service.EditUpdated, edit.Kind)
	assert.Equal(t, first.HistoryID, edit.HistoryID)

	// 换商品：替换
	w = doJSON(router, "PUT", fmt.Sprintf("/purchases/%d", first.HistoryID), gin.H{"category": "dairy", "item": "cheese", "price": "5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeResponse(t, w, &edit)
	assert.Equal(t, service.EditReplaced, edit.Kind)
	assert.NotEqual(t, first.HistoryID, edit.HistoryID)

	w = doJSON(router, "DELETE", fmt.Sprintf("/purchases/%d", edit.HistoryID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	// 重复删除同样成功
	w = doJSON(router, "DELETE", fmt.Sprintf("/purchases/%d", edit.HistoryID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.History{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseHandler_ValidationErrors(t *testing.T) {
	setupTestConfig(t, "debug")
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	router := newPurchaseRouter(alice.ID, alice.Username)

	cases := []struct {
		name string
		body gin.H
		msg  string
	}{
		{"缺少类别", gin.H{"item": "milk", "price": "1"}, "类别不能为空"},
		{"缺少商品", gin.H{"category": "grocery", "price": "1"}, "商品名称不能为空"},
		{"日期格式", gin.H{"category": "grocery", "item": "milk", "date": "2024/01/10", "price": "1"}, "日期格式错误"},
		{"价格非数字", gin.H{"category": "grocery", "item": "milk", "price": "abc"}, "价格必须是数字"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/purchases", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w, nil)
			assert.Contains(t, resp.Message, tc.msg)
		})
	}

	// JSON 中价格为布尔值
	w := doJSON(router, "POST", "/purchases", gin.H{"category": "grocery", "item": "milk", "price": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "PUT", "/purchases/abc", gin.H{"category": "a", "item": "b", "price": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(router, "DELETE", "/purchases/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseHandler_NotFound(t *testing.T) {
	setupTestConfig(t, "debug")
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	router := newPurchaseRouter(alice.ID, alice.Username)

	w := doJSON(router, "PUT", "/purchases/42", gin.H{"category": "a", "item": "b", "price": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/purchases/42/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.Equal(t, "购买记录不存在", resp.Message)
}

func TestPurchaseHandler_DeletedAccountCannotWrite(t *testing.T) {
	setupTestConfig(t, "debug")
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	router := newPurchaseRouter(alice.ID, alice.Username)

	w := doJSON(router, "POST", "/purchases", gin.H{"category": "grocery", "item": "milk", "price": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatedResponse
	decodeResponse(t, w, &created)

	require.NoError(t, db.Delete(&models.User{}, alice.ID).Error)

	// 注销前签发的 token 仍能通过认证，但不能继续写入
	w = doJSON(router, "POST", "/purchases", gin.H{"category": "grocery", "item": "bread", "price": "2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "账户不存在，请重新登录", decodeResponse(t, w, nil).Message)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")

	w = doJSON(router, "PUT", fmt.Sprintf("/purchases/%d", created.HistoryID), gin.H{"category": "grocery", "item": "milk", "price": "3"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	db.Model(&models.History{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseHandler_EmptyList(t *testing.T) {
	setupTestConfig(t, "debug")
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	router := newPurchaseRouter(alice.ID, alice.Username)

	w := doJSON(router, "GET", "/purchases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purchases":[]`)
}

func TestPurchaseHandler_List_StorageFailure(t *testing.T) {
	setupTestConfig(t, "release")
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `history`").
		WillReturnError(errors.New("connection refused"))

	router := newPurchaseRouter(1, "alice")
	w := doJSON(router, "GET", "/purchases", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.Equal(t, "查询购买记录失败", resp.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_Create_StorageFailureRollsBack(t *testing.T) {
	setupTestConfig(t, "release")
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	router := newPurchaseRouter(1, "alice")
	w := doJSON(router, "POST", "/purchases", gin.H{"category": "grocery", "item": "milk", "price": "1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.Equal(t, "记录购买失败", resp.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}
