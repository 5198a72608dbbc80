package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	fail    error
	limit   int
	started atomic.Int32
	// block makes the slow queries wait for cancellation
	block bool
}

func (f *fakeSource) wait(ctx context.Context) error {
	f.started.Add(1)
	if !f.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSource) OrdersByStatus(ctx context.Context) (map[string]int64, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return map[string]int64{"PENDENTE": 2, "PAGO": 5}, nil
}

func (f *fakeSource) Revenue(ctx context.Context) (float64, error) {
	f.started.Add(1)
	if f.fail != nil {
		return 0, f.fail
	}
	return 1299.99, nil
}

func (f *fakeSource) Customers(ctx context.Context) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	return 12, nil
}

func (f *fakeSource) ActiveProducts(ctx context.Context) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	return 30, nil
}

func (f *fakeSource) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	f.limit = limit
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func TestSummary(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.OrdersByStatus["PAGO"])
	assert.Equal(t, 1299.99, s.Revenue)
	assert.Equal(t, int64(12), s.Customers)
	assert.Equal(t, int64(30), s.ActiveProducts)
	assert.Equal(t, []TopProduct{}, s.TopProducts)
	assert.Equal(t, 5, src.limit)
	assert.Equal(t, int32(5), src.started.Load())
}

func TestSummary_FirstErrorCancelsTheRest(t *testing.T) {
	boom := errors.New("connection reset")
	src := &fakeSource{fail: boom, block: true}

	done := make(chan error, 1)
	go func() {
		_, err := NewService(src).Summary(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("summary did not return after a query failed")
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	allow := func(c *gin.Context) {}

	r := gin.New()
	NewHandler(NewService(&fakeSource{})).Register(r, allow, allow)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"RECEITA":1299.99`)

	r = gin.New()
	NewHandler(NewService(&fakeSource{fail: errors.New("down")})).Register(r, allow, allow)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}
