package notify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// LogTransport is a file-backed Transport used when no real messaging
// integration is configured. Every outbound message is appended to
// logs/outbox.log with a monotonically increasing message reference, so the
// full delivery stream can be inspected during development.
type LogTransport struct {
	mu   sync.Mutex
	next int64
	path string
}

func NewLogTransport() *LogTransport {
	_ = os.MkdirAll("logs", 0o755)
	return &LogTransport{next: 1, path: "logs/outbox.log"}
}

func (t *LogTransport) Deliver(_ context.Context, chat, text string, markup Markup) (int64, error) {
	return t.append("message", chat, text, markup, nil)
}

func (t *LogTransport) DeliverPhotos(_ context.Context, chat, text string, mediaRefs []string, markup Markup) (int64, error) {
	return t.append("media", chat, text, markup, mediaRefs)
}

func (t *LogTransport) Edit(_ context.Context, chat string, messageRef int64, text string, markup Markup) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.write(fmt.Sprintf("[%s] edit ref=%d chat=%s%s\n%s\n",
		time.Now().Format(time.RFC3339), messageRef, chat, markupSuffix(markup), text))
}

func (t *LogTransport) append(kind, chat, text string, markup Markup, mediaRefs []string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref := t.next
	t.next++
	media := ""
	if len(mediaRefs) > 0 {
		media = " media=" + strings.Join(mediaRefs, ",")
	}
	err := t.write(fmt.Sprintf("[%s] %s ref=%d chat=%s%s%s\n%s\n",
		time.Now().Format(time.RFC3339), kind, ref, chat, media, markupSuffix(markup), text))
	if err != nil {
		return 0, err
	}
	return ref, nil
}

func (t *LogTransport) write(entry string) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry + "\n")
	return err
}

func markupSuffix(m Markup) string {
	if len(m) == 0 {
		return ""
	}
	var tokens []string
	for _, row := range m {
		for _, b := range row {
			if b.Token != "" {
				tokens = append(tokens, b.Token)
			} else if b.URL != "" {
				tokens = append(tokens, b.URL)
			}
		}
	}
	return " buttons=" + strings.Join(tokens, "|")
}
