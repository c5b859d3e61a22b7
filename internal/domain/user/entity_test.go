package user

import (
	"testing"

	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "user@x.com", Password: "secret"}.Validate())

	err := Credentials{Email: "not-an-email", Password: ""}.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reg     Registration
		wantErr bool
	}{
		{"Valid", Registration{Name: "Ada", Email: "ada@x.com", Password: "Aa1!aaaaaaaa", Icon: IconFire}, false},
		{"WeakPassword", Registration{Name: "Ada", Email: "ada@x.com", Password: "password", Icon: IconFire}, true},
		{"ShortName", Registration{Name: "A", Email: "ada@x.com", Password: "Aa1!aaaaaaaa"}, true},
		{"UnknownIcon", Registration{Name: "Ada", Email: "ada@x.com", Password: "Aa1!aaaaaaaa", Icon: "unicorn"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := tt.reg
			err := reg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegistration_DefaultIcon(t *testing.T) {
	reg := Registration{Name: "Ada", Email: "ada@x.com", Password: "Aa1!aaaaaaaa"}
	require.NoError(t, reg.Validate())
	assert.Equal(t, DefaultIcon, reg.Icon)
}
