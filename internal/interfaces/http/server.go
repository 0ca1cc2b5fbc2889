package http

import (
	"crypto/sha256"
	"encoding/base64"
	"reflect"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

// ServerConfig options for NewServer.
type ServerConfig struct {
	AppName       string
	SessionSecret string
	BodyLimit     int
	Log           *logger.Logger
}

func init() {
	// Form and query decoding of decimal quantities; a malformed value fails the parse.
	fiber.SetParserDecoder(fiber.ParserConfig{
		IgnoreUnknownKeys: true,
		ZeroEmpty:         true,
		ParserType: []fiber.ParserType{{
			Customtype: decimal.Decimal{},
			Converter: func(s string) reflect.Value {
				d, err := decimal.NewFromString(strings.TrimSpace(s))
				if err != nil {
					return reflect.Value{}
				}
				return reflect.ValueOf(d)
			},
		}},
	})
}

// NewServer builds the fiber app with the ambient middleware: panic
// recovery, request ids, access logging and cookie encryption.
func NewServer(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.BodyLimit,
		// Parsed strings are copied out of the request buffer; stored records outlive the request.
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: fiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(cfg.Log))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: CookieKey(cfg.SessionSecret)}))
	return app
}

// CookieKey derives the AES-256 key encryptcookie expects from an arbitrary secret.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
