package remote

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
)

// requester is the part of *ssh.Client used for keep-alives.
type requester interface {
	SendRequest(name string, wantReply bool, payload []byte) (bool, []byte, error)
}

func keepAlive(conn requester, interval time.Duration, stop <-chan struct{}, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, _, err := conn.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				log.Warn(context.Background(), "SSH keep-alive failed: %v", err)
			}
		}
	}
}
