package validation

const (
	MsgInvalidEmail  = "Invalid email"
	MsgShortPassword = "String must contain at least 6 character(s)"
)

// CredentialsSchema is the minimal shape of a login submission.
var CredentialsSchema = Object(
	Field{Name: "email", Check: Email(MsgInvalidEmail)},
	Field{Name: "password", Check: MinLength(6, MsgShortPassword)},
)

// Credentials is a validated email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// ParseCredentials validates a login form.
func ParseCredentials(form Form) (Credentials, FieldErrors) {
	values, errs := CredentialsSchema.SafeParse(form)
	if errs != nil {
		return Credentials{}, errs
	}
	return Credentials{
		Email:    values["email"].(string),
		Password: values["password"].(string),
	}, nil
}
