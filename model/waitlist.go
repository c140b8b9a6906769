package model

import (
	"fmt"
	"strings"
	"time"
)

type WaitlistEntry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	ChannelURL string    `json:"channelUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (w WaitlistEntry) Validate() error {
	missing := []string{}
	if strings.TrimSpace(w.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(w.ChannelURL) == "" {
		missing = append(missing, "channelUrl")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	return nil
}
