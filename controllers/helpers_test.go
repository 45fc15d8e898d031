package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gin_postgres_redis_equipment_rent/app"
	"Gin_postgres_redis_equipment_rent/config"
	"Gin_postgres_redis_equipment_rent/db/memstore"
	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/routes"
	"Gin_postgres_redis_equipment_rent/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	nurseEmail = "ana.silva@hospital.test"
	techEmail  = "tomas.reyes@hospital.test"
)

type testServer struct {
	app   *app.App
	mr    *miniredis.Miniredis
	dept  *models.Department
	nurse *models.Staff
	tech  *models.Staff
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{Port: "3001", WebOrigin: "http://localhost:5173"},
		Auth: config.AuthConfig{
			Header:                  "X-Forwarded-Email",
			SessionTTLSeconds:       3600,
			LastSeenThrottleSeconds: 300,
		},
		Maintenance: config.MaintenanceConfig{StaleMonths: 6},
		Events:      config.EventsConfig{StatusChannel: "equipment:device-status"},
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a := app.New(testConfig(), zap.NewNop(), memstore.New(), rdb)
	t.Cleanup(a.Close)
	routes.RegisterRoutes(a.Router, a)

	ctx := context.Background()
	ts := &testServer{app: a, mr: mr}
	var err error
	ts.dept, err = a.Service.CreateDepartment(ctx, services.DepartmentInput{Name: "Cardiology"})
	require.NoError(t, err)
	ts.nurse, err = a.Service.CreateStaff(ctx, services.StaffInput{
		FirstName: "Ana", LastName: "Silva", Role: models.RoleStaff,
		Email: nurseEmail, DepartmentID: &ts.dept.ID,
	})
	require.NoError(t, err)
	ts.tech, err = a.Service.CreateStaff(ctx, services.StaffInput{
		FirstName: "Tomas", LastName: "Reyes", Role: models.RoleTechnician, Email: techEmail,
	})
	require.NoError(t, err)
	return ts
}

// do 以代理头 email 的身份发请求；email 为空时不带身份
func (ts *testServer) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("X-Forwarded-Email", email)
	}
	w := httptest.NewRecorder()
	ts.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type listBody[T any] struct {
	Items []T `json:"items"`
}

func (ts *testServer) createDevice(t *testing.T, name string) models.Device {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/devices", nurseEmail, map[string]any{
		"deviceName": name, "deviceType": "Infusion",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Device](t, w)
}

func (ts *testServer) rentBody(deviceID uint, start, end string) map[string]any {
	return map[string]any{
		"deviceId":      deviceID,
		"staffId":       ts.nurse.ID,
		"departmentId":  ts.dept.ID,
		"rentStartDate": start,
		"rentEndDate":   end,
	}
}

func (ts *testServer) deviceStatus(t *testing.T, id uint) models.DeviceStatus {
	t.Helper()
	d, err := ts.app.Service.GetDevice(context.Background(), id)
	require.NoError(t, err)
	return d.Status
}
