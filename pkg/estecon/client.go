// Package estecon provides typed accessors for the legislative data API.
package estecon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/estecon/estecon-client/pkg/fetcher"
)

// DefaultLegPeriod is the period the API assumes when none is given.
const DefaultLegPeriod = "2021-2026"

// ErrInvalidArgument is returned before any request is made when an
// identifier or filter is malformed.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	billIDPattern    = regexp.MustCompile(`^\d{4}_\d{5}$`)
	legPeriodPattern = regexp.MustCompile(`^[1-2]\d{3}-[1-2]\d{3}$`)
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Client reads API resources through a DataFetcher.
type Client struct {
	df fetcher.DataFetcher
}

// NewClient returns a Client backed by df.
func NewClient(df fetcher.DataFetcher) *Client {
	return &Client{df: df}
}

// BillsQuery filters the bills listing. Zero values are omitted.
type BillsQuery struct {
	Status         string
	ProposedBy     int
	LastActionDate string
	StepTypes      []string
	LegPeriod      string
}

func (q BillsQuery) values() (url.Values, error) {
	v := url.Values{}
	if s := strings.TrimSpace(q.Status); s != "" {
		v.Set("status", s)
	}
	if q.ProposedBy != 0 {
		v.Set("proposed_by", strconv.Itoa(q.ProposedBy))
	}
	if d := strings.TrimSpace(q.LastActionDate); d != "" {
		if !datePattern.MatchString(d) {
			return nil, fmt.Errorf("%w: last_action_date %q (want YYYY-MM-DD)", ErrInvalidArgument, d)
		}
		v.Set("last_action_date", d)
	}
	addStepTypes(v, q.StepTypes)
	if p := strings.TrimSpace(q.LegPeriod); p != "" {
		if err := checkLegPeriod(p); err != nil {
			return nil, err
		}
		v.Set("leg_period", p)
	}
	return v, nil
}

// EventsQuery filters procedural events. BillID is required.
type EventsQuery struct {
	BillID         string
	CongresistaID  int
	LastActionDate string
	StepTypes      []string
}

func (q EventsQuery) values() (url.Values, error) {
	if err := checkBillID(q.BillID); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("bill_id", q.BillID)
	if q.CongresistaID != 0 {
		v.Set("congresistas_id", strconv.Itoa(q.CongresistaID))
	}
	if d := strings.TrimSpace(q.LastActionDate); d != "" {
		v.Set("last_action_date", d)
	}
	addStepTypes(v, q.StepTypes)
	return v, nil
}

func addStepTypes(v url.Values, types []string) {
	for _, st := range types {
		if st = strings.TrimSpace(st); st != "" {
			v.Add("step_type", st)
		}
	}
}

func checkBillID(id string) error {
	if !billIDPattern.MatchString(id) {
		return fmt.Errorf("%w: bill id %q (want NNNN_NNNNN)", ErrInvalidArgument, id)
	}
	return nil
}

func checkLegPeriod(p string) error {
	if !legPeriodPattern.MatchString(p) {
		return fmt.Errorf("%w: leg period %q (want YYYY-YYYY)", ErrInvalidArgument, p)
	}
	return nil
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	env, err := fetcher.FetchAs[envelope[T]](ctx, c.df, endpoint)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// ListBills returns bill summaries ordered by most recent action.
func (c *Client) ListBills(ctx context.Context, q BillsQuery) ([]Bill, error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	return get[[]Bill](ctx, c, withQuery("/bills", v))
}

// GetBill returns the detail record for billID.
func (c *Client) GetBill(ctx context.Context, billID string) (BillDetail, error) {
	if err := checkBillID(billID); err != nil {
		return BillDetail{}, err
	}
	return get[BillDetail](ctx, c, "/bills/"+url.PathEscape(billID))
}

// ListEvents returns the procedural history selected by q.
func (c *Client) ListEvents(ctx context.Context, q EventsQuery) (BillEvents, error) {
	v, err := q.values()
	if err != nil {
		return BillEvents{}, err
	}
	return get[BillEvents](ctx, c, withQuery("/events", v))
}

// ListCongresistas returns the members acting in legPeriod (DefaultLegPeriod when empty).
func (c *Client) ListCongresistas(ctx context.Context, legPeriod string) ([]Congresista, error) {
	legPeriod = strings.TrimSpace(legPeriod)
	if legPeriod == "" {
		legPeriod = DefaultLegPeriod
	}
	if err := checkLegPeriod(legPeriod); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("leg_period", legPeriod)
	return get[[]Congresista](ctx, c, withQuery("/congresistas", v))
}

// GetCongresista returns the profile of one member.
func (c *Client) GetCongresista(ctx context.Context, id int) (CongresistaDetail, error) {
	if id <= 0 {
		return CongresistaDetail{}, fmt.Errorf("%w: congresista id %d", ErrInvalidArgument, id)
	}
	return get[CongresistaDetail](ctx, c, "/congresistas/"+strconv.Itoa(id))
}
