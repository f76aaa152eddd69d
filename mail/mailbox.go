/*
Package mail serves the discuss mailbox feeds: inbox, history and starred.

FEEDS (per current partner):
  inbox    messages with a pending notification (needaction)
  history  messages whose notification was read
  starred  messages starred by the partner

PAGING:
  Messages are returned newest first (descending id).
  before=N  only ids < N
  after=N   only ids > N; the oldest N+1.. are taken first, then reversed
  around=N  up to limit/2 ids <= N and limit/2 ids > N
  limit     default 30

  When a search term is given the response also carries the total count of
  matching messages, ignoring paging.
*/
package mail

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// DefaultLimit is the page size when the client sends none.
const DefaultLimit = 30

// Feed names one of the partner's mailboxes.
type Feed string

const (
	FeedInbox   Feed = "inbox"
	FeedHistory Feed = "history"
	FeedStarred Feed = "starred"
)

var ErrUnknownFeed = errors.New("unknown mailbox feed")

// Valid reports whether f is a known feed.
func (f Feed) Valid() bool {
	return f == FeedInbox || f == FeedHistory || f == FeedStarred
}

// Message is a discuss message as seen by one partner.
type Message struct {
	ID         int64
	AuthorID   int64
	Subject    string
	Body       string
	CreatedAt  time.Time
	NeedAction bool // unread notification for the partner
	Starred    bool // starred by the partner
}

// FetchParams are the client's paging and search inputs. Zero means unset.
type FetchParams struct {
	SearchTerm string
	Before     int64
	After      int64
	Around     int64
	Limit      int
}

// FetchResult is a page of messages, newest first.
type FetchResult struct {
	Messages []Message
	Count    *int // set when SearchTerm is given
}

// Query is a single store search.
type Query struct {
	PartnerID  int64
	Feed       Feed
	SearchTerm string
	IDBelow    int64 // id < IDBelow
	IDAtMost   int64 // id <= IDAtMost
	IDAbove    int64 // id > IDAbove
	Limit      int   // 0 = no limit
	Ascending  bool
}

// Store runs mailbox queries.
type Store interface {
	SearchMessages(ctx context.Context, q Query) ([]Message, error)
	CountMessages(ctx context.Context, q Query) (int, error)
}

// Mailbox pages feeds for the current partner over a Store.
type Mailbox struct {
	store Store
}

// NewMailbox returns a Mailbox reading from store.
func NewMailbox(store Store) *Mailbox {
	return &Mailbox{store: store}
}

// Fetch returns one page of a feed for the partner.
func (m *Mailbox) Fetch(ctx context.Context, partnerID int64, feed Feed, p FetchParams) (*FetchResult, error) {
	if !feed.Valid() {
		return nil, ErrUnknownFeed
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	base := Query{PartnerID: partnerID, Feed: feed, SearchTerm: strings.TrimSpace(p.SearchTerm)}

	var (
		res *FetchResult
		err error
	)
	if p.Around != 0 {
		res, err = m.fetchAround(ctx, base, p.Around, limit)
	} else {
		res, err = m.fetchPage(ctx, base, p, limit)
	}
	if err != nil {
		return nil, err
	}

	// The count covers the whole search, not the page.
	if base.SearchTerm != "" {
		count, err := m.store.CountMessages(ctx, base)
		if err != nil {
			return nil, err
		}
		res.Count = &count
	}
	return res, nil
}

func (m *Mailbox) fetchPage(ctx context.Context, base Query, p FetchParams, limit int) (*FetchResult, error) {
	q := base
	q.IDBelow = p.Before
	q.IDAbove = p.After
	q.Limit = limit
	q.Ascending = p.After != 0

	msgs, err := m.store.SearchMessages(ctx, q)
	if err != nil {
		return nil, err
	}
	newestFirst(msgs)
	return &FetchResult{Messages: msgs}, nil
}

func (m *Mailbox) fetchAround(ctx context.Context, base Query, around int64, limit int) (*FetchResult, error) {
	half := max(limit/2, 1)

	before := base
	before.IDAtMost = around
	before.Limit = half
	older, err := m.store.SearchMessages(ctx, before)
	if err != nil {
		return nil, err
	}

	after := base
	after.IDAbove = around
	after.Limit = half
	after.Ascending = true
	newer, err := m.store.SearchMessages(ctx, after)
	if err != nil {
		return nil, err
	}

	msgs := append(newer, older...)
	newestFirst(msgs)
	return &FetchResult{Messages: msgs}, nil
}

func newestFirst(msgs []Message) {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID > msgs[j].ID })
}
