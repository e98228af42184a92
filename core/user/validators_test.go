package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rekodi/core"
)

func TestCheckPassword(t *testing.T) {
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator, "")

	tests := []struct {
		name string
		pwd  string
		want string
	}{
		{name: "too short", pwd: "Ab1!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 123!", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no uppercase", pwd: "abcdefg1!", want: pwdComplexityTag},
		{name: "no special", pwd: "Abcdefg12", want: pwdComplexityTag},
		{name: "similar to username", pwd: "Johndoe1!", want: pwdAttrSimTag},
		{name: "common", pwd: "P@ssw0rd", want: pwdNoCommonTag},
		{name: "valid", pwd: "Kx9#mT2$vLq", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, checkPassword(tc.pwd, "Alice", "johndoe", "alice@rekodi.test"))
		})
	}
}

func TestNewUser_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator, "")

	tests := []struct {
		name    string
		nu      NewUser
		wantErr map[string]string
	}{
		{
			name: "username or email",
			nu:   NewUser{Name: "Alice", Password: "Kx9#mT2$vLq", PasswordConfirm: "Kx9#mT2$vLq"},
			wantErr: map[string]string{
				"username": usernameOrEmailText,
				"email":    usernameOrEmailText,
			},
		},
		{
			name: "password mismatch & bad roles",
			nu: NewUser{
				Name:            "Alice",
				Email:           "alice@rekodi.test",
				Password:        "Kx9#mT2$vLq",
				PasswordConfirm: "Kx9#mT2$vLr",
				Roles:           []string{"root:"},
			},
			wantErr: map[string]string{
				"passwordConfirm": "passwordConfirm must be equal to Password",
				"roles":           allRolesText,
			},
		},
		{
			name:    "weak password",
			nu:      NewUser{Name: "Alice", Username: "alice", Password: "alice123", PasswordConfirm: "alice123"},
			wantErr: map[string]string{"password": pwdComplexityText},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nu := tc.nu
			err := nu.Validate(validate, NewService(nil))
			fldErrs, ok := core.TranslateFieldErrors(err, translator, "")
			if assert.True(t, ok, "want validator errors, got %v", err) {
				got := make(map[string]string, len(fldErrs))
				for _, fe := range fldErrs {
					got[fe.Field] = fe.Error
				}
				assert.Equal(t, tc.wantErr, got)
			}
		})
	}
}
