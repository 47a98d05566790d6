package templates

// CodeData feeds the one-time-code emails.
type CodeData struct {
	Name             string
	Code             string
	ExpiresInMinutes int
}

// VerifyEmail is sent after signup so the user can activate the account.
var VerifyEmail = Expect[CodeData]("auth.verify_email")

// LoginCode is sent when an active user asks to sign in with a code.
var LoginCode = Expect[CodeData]("auth.login_code")
