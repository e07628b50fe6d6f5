package config

import (
    "time"
)

// RateLimitConfig controls the sliding-window limiter that gates every
// inbound update before any other component runs.  An actor that fills the
// window enters a ban: all requests are denied until the ban elapses.
type RateLimitConfig struct {
    Enabled     bool
    MaxRequests int           // requests allowed inside one window before a ban starts
    Period      time.Duration // sliding window length
    BanDuration time.Duration // how long a banned actor stays denied
    AuditQueue  string        // broker queue receiving denial audit events
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:     envBool("RATE_LIMIT_ENABLED", true),
        MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 10),
        Period:      envDur("RATE_LIMIT_PERIOD", time.Minute),
        BanDuration: envDur("RATE_LIMIT_BAN_DURATION", 5*time.Minute),
        AuditQueue:  envStr("RATE_LIMIT_AUDIT_QUEUE", "ratelimit.denied"),
    }
    if def.MaxRequests < 1 {
        def.MaxRequests = 1
    }
    if def.Period <= 0 {
        def.Period = time.Minute
    }
    if def.BanDuration < def.Period {
        def.BanDuration = def.Period
    }
    return def
}

func envStr(k, d string) string {
    return getenv(k, d)
}

func envBool(k string, d bool) bool {
    v := getenv(k, "")
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    v := getenv(k, "")
    if v == "" {
        return d
    }
    if n := atoi(v); n != 0 || v == "0" {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := getenv(k, "")
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
