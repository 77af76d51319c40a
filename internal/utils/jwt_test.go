package utils_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/utils"
)

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, utils.InitJWT("test-secret"))

	adminID := uuid.New()
	token, err := utils.GenerateJWT(adminID, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTRejectsGarbage(t *testing.T) {
	require.NoError(t, utils.InitJWT("test-secret"))

	_, err := utils.ValidateJWT("not.a.token")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestInitJWTRejectsEmptySecret(t *testing.T) {
	err := utils.InitJWT("")
	require.Error(t, err)
	assert.Equal(t, utils.KindConfig, utils.KindOf(err))
}

func TestErrorKindMapping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, utils.KindValidation, utils.KindOf(utils.Validation("bad input")))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(utils.NotFound("missing")))
	assert.Equal(t, utils.KindAuth, utils.KindOf(utils.Auth("nope")))
	assert.Equal(t, utils.KindUnknown, utils.KindOf(assert.AnError))
	assert.Equal(t, "Server error", utils.MessageOf(assert.AnError))
	assert.Equal(t, "missing", utils.MessageOf(utils.NotFound("missing")))
}
