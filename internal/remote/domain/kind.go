package domain

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/fieldops/metas/pkg/db"
)

// Kind is the closed classification of remote store failures. Retry
// policy in the gateway and the drain loop depends only on this value,
// never on the transport's own error shapes.
type Kind string

const (
	KindNone             Kind = "none"
	KindDuplicateKey     Kind = "duplicate_key"
	KindConnectivity     Kind = "connectivity"
	KindNotAuthenticated Kind = "not_authenticated"
	KindUnclassified     Kind = "unclassified"
)

// KindOf classifies a remote store error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return KindNotAuthenticated
	}
	if db.IsDuplicateKeyErr(err) {
		return KindDuplicateKey
	}
	if isConnectivityErr(err) {
		return KindConnectivity
	}
	return KindUnclassified
}

func isConnectivityErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EPIPE,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"failed to connect",
		"broken pipe",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
