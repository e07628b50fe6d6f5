package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and numeric identifiers.
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    JWTSecret         string // secret used to sign admin API tokens
    AccessTTLMin      int    // admin access token time‑to‑live in minutes
    AdminID           int64  // messaging‑platform actor id of the administrator
    AdminEmail        string // login for the admin panel API
    AdminPasswordHash string // bcrypt hash of the admin panel password
    ChannelChat       string // chat reference of the announcement channel
    GroupChat         string // chat reference of the moderation group
    BotUsername       string // bot username used to build apply deep links
    WebhookToken      string // shared secret expected in X-Webhook-Token
    SessionTTLMin     int    // idle conversation sessions expire after this many minutes
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:               must("APP_ENV"),                 // environment (dev/test/prod)
        Port:              must("APP_PORT"),                // port to bind the HTTP server
        DBUser:            must("DB_USER"),                 // database user
        DBPass:            os.Getenv("DB_PASS"),            // database password (empty allowed)
        DBHost:            must("DB_HOST"),                 // database host
        DBPort:            must("DB_PORT"),                 // database port
        DBName:            must("DB_NAME"),                 // database name
        JWTSecret:         must("JWT_SECRET"),              // secret used for signing admin tokens
        AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for admin access tokens in minutes
        AdminID:           mustInt64("ADMIN_ID"),           // privileged actor id
        AdminEmail:        must("ADMIN_EMAIL"),             // admin panel login
        AdminPasswordHash: must("ADMIN_PASSWORD_HASH"),     // bcrypt hash, never the plain password
        ChannelChat:       must("CHANNEL_CHAT"),            // announcement channel reference
        GroupChat:         must("GROUP_CHAT"),              // moderation group reference
        BotUsername:       must("BOT_USERNAME"),            // deep link target
        WebhookToken:      must("WEBHOOK_TOKEN"),           // webhook shared secret
        SessionTTLMin:     atoi(getenv("SESSION_TTL_MIN", "30")),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// mustInt64 is like mustInt but for 64‑bit identifiers such as actor ids.
func mustInt64(key string) int64 {
    s := must(key)
    n, err := strconv.ParseInt(s, 10, 64)
    if err != nil {
        log.Fatalf("invalid int64 for %s: %q", key, s)
    }
    return n
}

// Helper functions shared with ratelimit.go for optional variables.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}
