package googleidp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/bndy/centrestage/internal/ports"
)

// This file is the only place that inspects provider error shapes and
// message text. Everything it returns is a wrapped ports sentinel so the
// rest of the codebase can match with errors.Is.

// classifyVerifyError maps a go-oidc verification failure onto the port's
// error taxonomy.
func classifyVerifyError(err error) error {
	var expired *gooidc.TokenExpiredError
	if errors.As(err, &expired) {
		return fmt.Errorf("%w: %w", ports.ErrCredentialExpired, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrCredentialInvalid, err)
}

// adminErrorBody is the identitytoolkit error envelope.
type adminErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// classifyAdminError maps an identitytoolkit REST failure onto the port's
// error taxonomy. Messages are upper-snake codes, sometimes with a trailing
// detail segment ("TOKEN_EXPIRED : the credential is no longer valid").
func classifyAdminError(statusCode int, body []byte) error {
	var envelope adminErrorBody
	_ = json.Unmarshal(body, &envelope)

	message := envelope.Error.Message
	code, _, _ := strings.Cut(message, " ")
	code = strings.TrimSpace(code)

	var sentinel error
	switch code {
	case "USER_NOT_FOUND", "USER_DISABLED":
		sentinel = ports.ErrUserNotFound
	case "TOKEN_EXPIRED", "ID_TOKEN_EXPIRED", "SESSION_COOKIE_EXPIRED":
		sentinel = ports.ErrCredentialExpired
	case "INVALID_ID_TOKEN", "INVALID_SESSION_COOKIE", "MISSING_ID_TOKEN":
		sentinel = ports.ErrCredentialInvalid
	}
	if sentinel != nil {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	if message == "" {
		return fmt.Errorf("identity admin API: status %d", statusCode)
	}
	return fmt.Errorf("identity admin API: status %d: %s", statusCode, message)
}
