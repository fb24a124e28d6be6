package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/extramurs/matchday/internal/logger"
)

// PostInterval spaces consecutive posts
const PostInterval = 2 * time.Second

// TwitterNotifier posts announcements to Twitter
type TwitterNotifier struct {
	client    *twitter.Client
	formatter Formatter
	interval  time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(formatter Formatter) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return newTwitterNotifier(httpClient, formatter, PostInterval), nil
}

func newTwitterNotifier(httpClient *http.Client, formatter Formatter, interval time.Duration) *TwitterNotifier {
	return &TwitterNotifier{
		client:    twitter.NewClient(httpClient),
		formatter: formatter,
		interval:  interval,
	}
}

// Notify posts one tweet per announcement, stopping at the first failure
func (n *TwitterNotifier) Notify(ctx context.Context, announcements []Announcement) error {
	for i, a := range announcements {
		tweet := n.formatter.Format(a)

		tw, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post %s announcement for %s: %w", a.Kind, a.Fixture.Key(), err)
		}
		logger.Info("Tweet posted", logger.Fields{"kind": a.Kind, "fixture": a.Fixture.Key(), "tweet_id": tw.IDStr})

		// Rate limiting: wait between tweets
		if i < len(announcements)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.interval):
			}
		}
	}

	return nil
}
