package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
	"github.com/bcod/campus-market/internal/service"
)

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID int64, req *dto.PlaceOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func orderRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.POST("/api/orders", h.PlaceOrder)
	r.GET("/api/orders/:id", h.GetOrder)
	r.PUT("/api/admin/orders/:id/status", h.UpdateStatus)
	return r
}

func TestPlaceOrderHandler(t *testing.T) {
	mockSvc := new(MockOrderService)
	order := &domain.Order{
		ID:          1,
		Status:      domain.OrderPending,
		TotalAmount: 150000,
	}
	mockSvc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).Return(order, nil)

	body, _ := json.Marshal(dto.PlaceOrderRequest{CodLocationID: 3})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got domain.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.OrderPending, got.Status)
	mockSvc.AssertExpectations(t)
}

func TestPlaceOrderHandlerEmptyCart(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrEmptyCart)

	body, _ := json.Marshal(dto.PlaceOrderRequest{CodLocationID: 3})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")
}

func TestPlaceOrderHandlerLocationUnavailable(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrLocationUnavailable)

	body, _ := json.Marshal(dto.PlaceOrderRequest{CodLocationID: 99})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "COD location is not available")
}

func TestPlaceOrderHandlerMissingLocation(t *testing.T) {
	mockSvc := new(MockOrderService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "PlaceOrder")
}

func TestGetOrderHidesOtherBuyersOrders(t *testing.T) {
	mockSvc := new(MockOrderService)
	// Order belongs to user 2; the anonymous test request is user 0 without roles
	mockSvc.On("GetOrder", mock.Anything, int64(1)).Return(&domain.Order{ID: 1, UserID: 2}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusHandler(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("UpdateStatus", mock.Anything, int64(7), "CONFIRMED").
		Return(&domain.Order{ID: 7, Status: domain.OrderConfirmed}, nil)

	body, _ := json.Marshal(dto.UpdateOrderStatusRequest{Status: "CONFIRMED"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/7/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUpdateStatusHandlerInvalidStatus(t *testing.T) {
	mockSvc := new(MockOrderService)
	mockSvc.On("UpdateStatus", mock.Anything, int64(7), "SHIPPED").
		Return(nil, service.ErrInvalidOrderStatus)

	body, _ := json.Marshal(dto.UpdateOrderStatusRequest{Status: "SHIPPED"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/7/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid order status")
}
