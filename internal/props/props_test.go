package props

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/albapepper/scoracle-props/internal/aggregate"
	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

type fakeOdds struct {
	ev  aggregate.Event
	err error
	got oddsapi.EventOddsRequest
}

func (f *fakeOdds) EventOdds(_ context.Context, r oddsapi.EventOddsRequest) (aggregate.Event, error) {
	f.got = r
	return f.ev, f.err
}

func newService(odds OddsSource, gate bool) *Service {
	agg := aggregate.New(market.NewClassifier(market.DefaultTable()))
	return NewService(odds, agg, Options{ProGate: gate}, nil)
}

func decodeEvent(t *testing.T, s string) aggregate.Event {
	t.Helper()
	var ev aggregate.Event
	if err := json.Unmarshal([]byte(s), &ev); err != nil {
		t.Fatal(err)
	}
	return ev
}

const twoBooks = `{"id":"e1","bookmakers":[
	{"key":"draftkings","title":"DraftKings","markets":[
		{"key":"totals","outcomes":[{"name":"Over","point":44.5,"price":-110}]},
		{"key":"player_anytime_td","outcomes":[{"name":"Yes","description":"Back","price":-150},{"name":"Yes","description":"Wideout","price":200}]}
	]},
	{"key":"fanduel","title":"FanDuel","markets":[
		{"key":"player_anytime_td","outcomes":[{"name":"Yes","description":"Back","price":120}]}
	]}
]}`

func TestPlayers_DefaultsAndRanking(t *testing.T) {
	odds := &fakeOdds{ev: decodeEvent(t, twoBooks)}
	svc := newService(odds, true)

	resp, err := svc.Players(context.Background(), Request{EventID: "e1", Mode: "preseason"})
	if err != nil {
		t.Fatalf("Players failed: %v", err)
	}

	if odds.got.Sport != oddsapi.SportNFLPreseason || odds.got.Regions != oddsapi.DefaultRegions {
		t.Errorf("request = %+v", odds.got)
	}
	if strings.Join(odds.got.Markets, ",") != "player_anytime_td,totals" {
		t.Errorf("markets = %v", odds.got.Markets)
	}

	if !resp.PropsAvailable || resp.Note != "" || resp.ProRequired {
		t.Errorf("resp = %+v", resp)
	}
	if *resp.Market != market.KeyAnytimeTD {
		t.Errorf("market = %s", *resp.Market)
	}
	// Wideout +200 → 33; Back avg(-150, +120) → 13.
	if len(resp.Players) != 2 || resp.Players[0].Player != "Wideout" || resp.Players[0].Score != 33 || resp.Players[1].Score != 13 {
		t.Errorf("players = %+v", resp.Players)
	}
	if resp.GameTotal == nil || *resp.GameTotal != 44.5 {
		t.Errorf("gameTotal = %v", resp.GameTotal)
	}
}

func TestPlayers_BooksFilter(t *testing.T) {
	svc := newService(&fakeOdds{ev: decodeEvent(t, twoBooks)}, true)

	resp, err := svc.Players(context.Background(), Request{EventID: "e1", Market: market.KeyAnytimeTD, Books: []string{"FANDUEL"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Players) != 1 || resp.Players[0].Player != "Back" || resp.Players[0].Score != 45 {
		t.Errorf("players = %+v", resp.Players)
	}
	// Totals came only from the filtered-out book.
	if resp.GameTotal != nil {
		t.Errorf("gameTotal = %v, want nil", *resp.GameTotal)
	}
}

func TestPlayers_NoOutcomes(t *testing.T) {
	svc := newService(&fakeOdds{ev: decodeEvent(t, twoBooks)}, true)
	resp, err := svc.Players(context.Background(), Request{EventID: "e1", Market: market.KeyRushYds})
	if err != nil {
		t.Fatal(err)
	}
	if resp.PropsAvailable || resp.Note != noOutcomesNote || resp.Players == nil || len(resp.Players) != 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPlayers_ProGate(t *testing.T) {
	tests := []struct {
		name       string
		err        *oddsapi.APIError
		wantReason string
	}{
		{"credits", &oddsapi.APIError{Status: 401, Code: ReasonOutOfCredits}, ReasonOutOfCredits},
		{"markets", &oddsapi.APIError{Status: 422, Code: ReasonNotAuthorized}, ReasonNotAuthorized},
		{"other", &oddsapi.APIError{Status: 500, Code: "SOMETHING"}, "HTTP_500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&fakeOdds{err: tt.err}, true)
			resp, err := svc.Players(context.Background(), Request{EventID: "e1", Market: market.KeyReceptions})
			if err != nil {
				t.Fatalf("gated request should not error: %v", err)
			}
			if !resp.ProRequired || resp.Reason != tt.wantReason || resp.PropsAvailable {
				t.Errorf("resp = %+v", resp)
			}
			if len(resp.Players) != 1 || resp.Players[0].Market != market.KeyReceptions || resp.Players[0].Score != 51 {
				t.Errorf("sample = %+v", resp.Players)
			}
			if resp.Note == "" {
				t.Error("missing note")
			}
		})
	}
}

func TestPlayers_Errors(t *testing.T) {
	apiErr := &oddsapi.APIError{Status: 401, Code: ReasonOutOfCredits}

	svc := newService(&fakeOdds{err: apiErr}, false)
	_, err := svc.Players(context.Background(), Request{EventID: "e1"})
	var got *oddsapi.APIError
	if !errors.As(err, &got) {
		t.Errorf("gate disabled: err = %v, want APIError", err)
	}

	svc = newService(&fakeOdds{err: errors.New("dial tcp: refused")}, true)
	if _, err := svc.Players(context.Background(), Request{EventID: "e1"}); err == nil {
		t.Error("transport errors must not be gated")
	}

	if _, err := svc.Players(context.Background(), Request{EventID: "  "}); !errors.Is(err, ErrMissingEventID) {
		t.Errorf("err = %v, want ErrMissingEventID", err)
	}
}

func TestDebug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("markets") != "spreads,totals,player_anytime_td" {
			t.Errorf("markets = %s", r.URL.Query().Get("markets"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bookmakers":[{"key":"dk","title":"DraftKings"},{"key":"fd"}]}`))
	}))
	defer srv.Close()
	client := oddsapi.NewClient(srv.URL, "topsecret-abcdef", 6000, nil)

	resp, err := Debug(context.Background(), client, DebugRequest{EventID: "e1"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.OddsURL, "topsecret") {
		t.Errorf("url leaks key: %s", resp.OddsURL)
	}
	if resp.UsingKeySuffix != "***abcdef" || resp.SportKey != oddsapi.SportNFL || resp.Regions != oddsapi.GameRegions {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Summary.Status != 200 || resp.Summary.Bookmakers != 2 || strings.Join(resp.Summary.Books, ",") != "DraftKings,fd" {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.Summary.Body != nil {
		t.Error("successful body should be omitted")
	}
}

func TestDebug_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_code":"OUT_OF_USAGE_CREDITS"}`))
	}))
	defer srv.Close()
	client := oddsapi.NewClient(srv.URL, "k", 6000, nil)

	resp, err := Debug(context.Background(), client, DebugRequest{EventID: "e1", Mode: "preseason", Markets: "totals"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Summary.Status != 401 || !strings.Contains(string(resp.Summary.Body), "OUT_OF_USAGE_CREDITS") {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.SportKey != oddsapi.SportNFLPreseason {
		t.Errorf("sport = %s", resp.SportKey)
	}
}
