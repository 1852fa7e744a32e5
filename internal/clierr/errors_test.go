package clierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_SetExpectedCodes(t *testing.T) {
	assert.Equal(t, ExitConfig, ConfigError("bad config", nil).Code)
	assert.Equal(t, ExitParse, ParseError("bad query", nil).Code)
	assert.Equal(t, ExitDBConnect, DBConnectError("no db", nil).Code)
	assert.Equal(t, ExitGeneral, GeneralError("oops", nil).Code)
}

func TestExitError_ErrorIncludesWrapped(t *testing.T) {
	wrapped := errors.New("connection refused")
	err := DBConnectError("connecting to database", wrapped)
	assert.Equal(t, "connecting to database: connection refused", err.Error())
}

func TestExitError_ErrorWithoutWrapped(t *testing.T) {
	err := ConfigError("missing dsn", nil)
	assert.Equal(t, "missing dsn", err.Error())
}

func TestExitError_Unwrap(t *testing.T) {
	wrapped := errors.New("boom")
	err := GeneralError("failed", wrapped)
	assert.ErrorIs(t, err, wrapped)
}

func TestExitError_ErrorsAs(t *testing.T) {
	var target *ExitError
	err := error(ParseError("bad", nil))
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, ExitParse, target.Code)
}
