package config

import (
	"net"
	"regexp"
	"strconv"
	"time"
)

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// Location resolves Timezone as an IANA name ("Asia/Tokyo") or a fixed
// offset ("+09:00"). Anything else, including empty, is UTC.
func (c *AnalysisConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	if loc, ok := offsetZone(c.Timezone); ok {
		return loc
	}
	return time.UTC
}

// Today returns midnight of now's date in the analysis timezone
func (c *AnalysisConfig) Today(now time.Time) time.Time {
	y, m, d := now.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// offsetZone parses "+hh:mm" / "-hh:mm" with hh up to 14 and mm below 60
func offsetZone(s string) (*time.Location, bool) {
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 14 || minutes > 59 {
		return nil, false
	}
	secs := hours*3600 + minutes*60
	if m[1] == "-" {
		secs = -secs
	}
	return time.FixedZone(s, secs), true
}
