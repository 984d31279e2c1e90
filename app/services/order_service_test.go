package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/cache"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/storage"
)

func placedOrder() *models.Order {
	return &models.Order{
		Base:         models.Base{ID: "o-1"},
		OrderNumber:  "ORD-20260315-ABCDEF12",
		Status:       models.OrderPending,
		ShippingInfo: shipping(),
	}
}

func TestTrackRequiresMatchingEmail(t *testing.T) {
	orders := &mockOrders{}
	orders.On("FindByNumber", mock.Anything, "ORD-20260315-ABCDEF12").Return(placedOrder(), nil)
	svc := NewOrderService(orders, nil, nil, nil, nil)

	o, err := svc.Track(context.Background(), "ord-20260315-abcdef12", "ANA@example.cl")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)

	_, err = svc.Track(context.Background(), "ORD-20260315-ABCDEF12", "otra@example.cl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusIsUnconditionalAndFiresEvent(t *testing.T) {
	orders := &mockOrders{}
	o := placedOrder()
	o.Status = models.OrderDelivered
	orders.On("Get", mock.Anything, "o-1").Return(o, nil)
	orders.On("Update", mock.Anything, o).Return(nil)
	rec := &recorder{}

	got, err := NewOrderService(orders, nil, nil, rec, nil).
		UpdateStatus(context.Background(), "o-1", StatusInput{Status: models.OrderPending})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)

	require.Equal(t, []string{events.OrderUpdated}, rec.names())
	change := rec.data[0].(events.OrderChanged)
	assert.Equal(t, models.OrderDelivered, change.PreviousStatus)
	assert.True(t, change.StatusChanged())
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	_, err := NewOrderService(&mockOrders{}, nil, nil, nil, nil).
		UpdateStatus(context.Background(), "o-1", StatusInput{Status: "lost"})
	var verr ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUpdateShippingKeepsTrackingWhenBlank(t *testing.T) {
	orders := &mockOrders{}
	o := placedOrder()
	o.TrackingNumber = "CHX123"
	orders.On("Get", mock.Anything, "o-1").Return(o, nil)
	orders.On("Update", mock.Anything, o).Return(nil)

	got, err := NewOrderService(orders, nil, nil, nil, nil).UpdateShipping(context.Background(), "o-1",
		ShippingInput{ShippingStatus: models.ShippingShipped})
	require.NoError(t, err)
	assert.Equal(t, "CHX123", got.TrackingNumber)
	assert.Equal(t, models.ShippingShipped, got.ShippingStatus)
}

func TestStalePendingUsesCutoff(t *testing.T) {
	orders := &mockOrders{}
	cutoff := testNow.Add(-48 * time.Hour)
	orders.On("List", mock.Anything, mock.MatchedBy(func(f models.OrderFilter) bool {
		return f.Status == models.OrderPending && f.CreatedBefore.Equal(cutoff)
	})).Return([]models.Order{*placedOrder()}, int64(1), nil)

	items, got, err := NewOrderService(orders, nil, nil, nil, fixedClock(testNow)).StalePending(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, cutoff, got)
}

type stubCustomOrders struct {
	repositories.CustomOrderRepository
	stored *models.CustomOrder
}

func (s *stubCustomOrders) Create(_ context.Context, c *models.CustomOrder) error {
	s.stored = c
	return nil
}

func (s *stubCustomOrders) Get(_ context.Context, id string) (*models.CustomOrder, error) {
	if s.stored == nil || s.stored.ID != id {
		return nil, repositories.ErrNotFound
	}
	cp := *s.stored
	return &cp, nil
}

func (s *stubCustomOrders) Update(_ context.Context, c *models.CustomOrder) error {
	s.stored = c
	return nil
}

func TestCustomOrderLifecycle(t *testing.T) {
	repo := &stubCustomOrders{}
	rec := &recorder{}
	svc := NewCustomOrderService(repo, rec, fixedClock(testNow))

	c, err := svc.Submit(context.Background(), CustomOrderInput{
		Customer:    models.Customer{Name: "Rosa", Email: "rosa@example.cl"},
		Description: "Retrato familiar al óleo",
		Budget:      300000,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.RequestNumber, "SOL-20260315-"))
	assert.Equal(t, models.CustomPending, c.Status)
	c.ID = "co-1"

	price := int64(350000)
	got, err := svc.Update(context.Background(), "co-1", CustomOrderUpdate{QuotedPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, models.CustomQuoted, got.Status)

	notes := "Llamar el lunes"
	_, err = svc.Update(context.Background(), "co-1", CustomOrderUpdate{AdminNotes: &notes})
	require.NoError(t, err)

	// notes alone do not notify the customer
	assert.Equal(t, []string{events.CustomOrderCreated, events.CustomOrderUpdated}, rec.names())
}

func TestCustomOrderRejectsPastDeadline(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)
	_, err := NewCustomOrderService(&stubCustomOrders{}, nil, fixedClock(testNow)).Submit(context.Background(), CustomOrderInput{
		Customer: models.Customer{Name: "Rosa", Email: "rosa@example.cl"}, Description: "x", Deadline: &past,
	})
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "deadline")
}

type memSettings struct {
	docs map[string]*models.Setting
}

func (m *memSettings) Get(_ context.Context, key string) (*models.Setting, error) {
	if s, ok := m.docs[key]; ok {
		return s, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *memSettings) Put(_ context.Context, s *models.Setting) error {
	m.docs[s.Key] = s
	return nil
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	svc := NewSettingsService(&memSettings{docs: map[string]*models.Setting{}}, time.Minute, fixedClock(testNow))
	ctx := context.Background()

	doc, err := svc.Get(ctx, models.SettingsGeneral)
	require.NoError(t, err)
	assert.Equal(t, "Galería", doc.(*models.GeneralSettings).SiteName)

	_, err = svc.Put(ctx, models.SettingsMusic, []byte(`{"enabled":true,"volume":70}`))
	require.NoError(t, err)
	doc, err = svc.Get(ctx, models.SettingsMusic)
	require.NoError(t, err)
	assert.Equal(t, 70, doc.(*models.MusicSettings).Volume)

	_, err = svc.Put(ctx, models.SettingsMusic, []byte(`{"volume":140}`))
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "volume")

	_, err = svc.Put(ctx, models.SettingsMusic, []byte(`{"loud":true}`))
	assert.ErrorIs(t, err, ErrMalformedSettings)

	_, err = svc.Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrUnknownSettings)
}

func TestSettingsPutLogsFailedInvalidation(t *testing.T) {
	prev := cache.RDB
	cache.RDB = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() {
		cache.RDB.Close()
		cache.RDB = prev
	})

	var buf bytes.Buffer
	ctx := logger.InjectLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	repo := &memSettings{docs: map[string]*models.Setting{}}
	svc := NewSettingsService(repo, time.Minute, fixedClock(testNow))

	_, err := svc.Put(ctx, models.SettingsMusic, []byte(`{"enabled":true,"volume":70}`))
	require.NoError(t, err, "a cache outage does not fail the write")
	assert.Contains(t, repo.docs[models.SettingsMusic].Data, `"volume":70`)
	assert.Contains(t, buf.String(), "settings cache not invalidated")
	assert.Contains(t, buf.String(), `"key":"music"`)
}

func TestUploadStoresUnderFolder(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "http://localhost:3000/storage")
	svc := NewUploadService(disk, fixedClock(testNow))

	up, err := svc.Store(context.Background(), "paintings", "Atardecer Final.JPG", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "paintings/1773576000000-atardecer-final.jpg", up.Path)
	assert.Equal(t, "http://localhost:3000/storage/"+up.Path, up.URL)

	_, err = svc.Store(context.Background(), "secrets", "x.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrFolderNotAllowed)
}
