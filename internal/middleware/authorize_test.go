package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试辅助 ====================

// spyHandler 记录是否被调用
type spyHandler struct {
	called bool
	claims *Claims
}

func (s *spyHandler) handle(c *gin.Context) {
	s.called = true
	s.claims = GetClaims(c)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func setupGateRouter(codec *TokenCodec, req Requirement, spy *spyHandler) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Authorize(codec, req), spy.handle)
	r.GET("/public", spy.handle)
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, codec *TokenCodec, snapshot model.PermissionSnapshot) string {
	t.Helper()
	token, err := codec.Issue(TokenPayload{SubjectID: 7, SubjectType: model.SubjectTenant, Snapshot: snapshot})
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ==================== 单元测试 ====================

func TestAuthorize_EmptyRequirementPassesAnyValidToken(t *testing.T) {
	codec := testCodec()
	snapshots := []model.PermissionSnapshot{
		{},
		model.SuperSnapshot(model.SuperLimits{ProductLimit: 10}),
		{UserPermissions: model.UserPermissions{SalesReports: true}},
	}

	for _, s := range snapshots {
		spy := &spyHandler{}
		w := doGet(setupGateRouter(codec, Requirement{}, spy), "/protected", issue(t, codec, s))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, spy.called)
		require.NotNil(t, spy.claims)
		assert.Equal(t, int64(7), spy.claims.SubjectID)
	}
}

func TestAuthorize_UserPermissionAllMatch(t *testing.T) {
	codec := testCodec()
	req := Requirement{UserPermissions: model.RequireUser(model.UserSalesReports, model.UserBlockTenant)}

	tests := []struct {
		name     string
		snapshot model.UserPermissions
		want     int
	}{
		{"全部满足", model.UserPermissions{SalesReports: true, BlockTenant: true}, http.StatusOK},
		{"多余权限不影响", model.UserPermissions{SalesReports: true, BlockTenant: true, ManageAdmins: true, MaxCommissionPercent: 30}, http.StatusOK},
		{"缺少一项", model.UserPermissions{SalesReports: true}, http.StatusForbidden},
		{"值不相等", model.UserPermissions{SalesReports: false, BlockTenant: true}, http.StatusForbidden},
		{"全部缺失", model.UserPermissions{}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyHandler{}
			token := issue(t, codec, model.PermissionSnapshot{UserPermissions: tt.snapshot})
			w := doGet(setupGateRouter(codec, req, spy), "/protected", token)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, spy.called)
		})
	}
}

func TestAuthorize_ProductPermissionAndNumericMatch(t *testing.T) {
	codec := testCodec()
	req := Requirement{ProductPermissions: []model.ProductRule{
		{Key: model.ProductManageCoupons, Value: model.Bool(true)},
		{Key: model.ProductCouponLimit, Value: model.Number(20)},
	}}

	spy := &spyHandler{}
	token := issue(t, codec, model.PermissionSnapshot{ProductPermissions: model.ProductPermissions{ManageCoupons: true, CouponLimit: 20}})
	assert.Equal(t, http.StatusOK, doGet(setupGateRouter(codec, req, spy), "/protected", token).Code)

	spy = &spyHandler{}
	token = issue(t, codec, model.PermissionSnapshot{ProductPermissions: model.ProductPermissions{ManageCoupons: true, CouponLimit: 10}})
	assert.Equal(t, http.StatusForbidden, doGet(setupGateRouter(codec, req, spy), "/protected", token).Code)
	assert.False(t, spy.called)
}

func TestAuthorize_MissingCredentialNeverReachesHandler(t *testing.T) {
	spy := &spyHandler{}
	w := doGet(setupGateRouter(testCodec(), Requirement{}, spy), "/protected", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, spy.called)
	assert.Equal(t, "MISSING_CREDENTIAL", decodeError(t, w).Code)
}

func TestAuthorize_InvalidCredential(t *testing.T) {
	codec := testCodec()
	r := gin.New()
	spy := &spyHandler{}
	r.GET("/protected", Authorize(codec, Requirement{}), spy.handle)

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, "INVALID_CREDENTIAL", decodeError(t, w).Code, header)
	}
	assert.False(t, spy.called)
}

func TestAuthorize_ExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	old := testCodec().WithClock(func() time.Time { return issuedAt })
	token := issue(t, old, model.PermissionSnapshot{})

	spy := &spyHandler{}
	w := doGet(setupGateRouter(testCodec(), Requirement{}, spy), "/protected", token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIAL", decodeError(t, w).Code)
	assert.False(t, spy.called)
}

func TestAuthorize_ForbiddenBody(t *testing.T) {
	codec := testCodec()
	req := Requirement{UserPermissions: model.RequireUser(model.UserSalesReports)}
	token := issue(t, codec, model.PermissionSnapshot{UserPermissions: model.UserPermissions{SalesReports: false}})

	w := doGet(setupGateRouter(codec, req, &spyHandler{}), "/protected", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Unauthorized", body.Message)
	assert.Equal(t, "Forbidden", body.Kind)
	assert.Equal(t, "INSUFFICIENT_PERMISSION", body.Code)
}

func TestAuthorize_PublicRouteNeedsNoToken(t *testing.T) {
	spy := &spyHandler{}
	w := doGet(setupGateRouter(testCodec(), Requirement{}, spy), "/public", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, spy.called)
	assert.Nil(t, spy.claims)
}

func TestRequirement_CapacityPlaceholder(t *testing.T) {
	assert.NoError(t, Requirement{CapacityFloor: 0}.Check(model.PermissionSnapshot{}))
	assert.NoError(t, Requirement{CapacityFloor: 5}.Check(model.PermissionSnapshot{}))
	assert.ErrorIs(t, Requirement{CapacityFloor: -1}.Check(model.PermissionSnapshot{}), ErrInsufficientPermission)
}

func TestAuthorize_SnapshotIsNotReRead(t *testing.T) {
	// 凭证中的快照在签发后不随角色变化
	codec := testCodec()
	role := &model.Role{}
	role.UserPermissions = datatypesUser(model.UserPermissions{SalesReports: true})
	token := issue(t, codec, model.SnapshotOf(role))

	role.UserPermissions = datatypesUser(model.UserPermissions{SalesReports: false})

	spy := &spyHandler{}
	req := Requirement{UserPermissions: model.RequireUser(model.UserSalesReports)}
	w := doGet(setupGateRouter(codec, req, spy), "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func datatypesUser(p model.UserPermissions) datatypes.JSONType[model.UserPermissions] {
	return datatypes.NewJSONType(p)
}
