package validation

import (
	"reflect"
	"testing"
)

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want FieldErrors
	}{
		{
			name: "valid",
			form: Form{"email": "a@b.com", "password": "secret1"},
		},
		{
			name: "short password",
			form: Form{"email": "a@b.com", "password": "short"},
			want: FieldErrors{"password": {MsgShortPassword}},
		},
		{
			name: "bad email",
			form: Form{"email": "not-an-email", "password": "longenough"},
			want: FieldErrors{"email": {MsgInvalidEmail}},
		},
		{
			name: "padded email",
			form: Form{"email": " a@b.com", "password": "longenough"},
			want: FieldErrors{"email": {MsgInvalidEmail}},
		},
		{
			name: "nothing submitted",
			form: Form{},
			want: FieldErrors{"email": {MsgInvalidEmail}, "password": {MsgShortPassword}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, errs := ParseCredentials(tt.form)
			if !reflect.DeepEqual(errs, tt.want) {
				t.Fatalf("errors: got %v, want %v", errs, tt.want)
			}
			if tt.want == nil && (creds.Email != tt.form["email"] || creds.Password != tt.form["password"]) {
				t.Errorf("unexpected credentials: %+v", creds)
			}
		})
	}
}

func TestMinLengthCountsCharacters(t *testing.T) {
	// six runes, more than six bytes
	_, errs := ParseCredentials(Form{"email": "a@b.com", "password": "héllo!"})
	if errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
}
