package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out       io.Writer
	formatter Formatter
}

// NewDryRunNotifier creates a new dry-run notifier writing to out (stdout when nil)
func NewDryRunNotifier(out io.Writer, formatter Formatter) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out, formatter: formatter}
}

// Notify prints the posts that would be published
func (n *DryRunNotifier) Notify(_ context.Context, announcements []Announcement) error {
	for i, a := range announcements {
		post := n.formatter.Format(a)
		fmt.Fprintf(n.out, "--- Post %d/%d (%s) ---\n", i+1, len(announcements), a.Kind)
		fmt.Fprintln(n.out, post)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(post))
	}
	return nil
}
