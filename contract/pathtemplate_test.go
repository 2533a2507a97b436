package contract_test

import (
	"testing"

	"github.com/kontrakt-dev/kontrakt/contract"
)

func TestPathTemplate_MatchAndExtract(t *testing.T) {
	tp := contract.MustCompilePath("/users/{id}")

	if !tp.Matches("/users/42") {
		t.Fatalf("expected /users/42 to match")
	}
	params := tp.ExtractParams("/users/42")
	if params["id"] != "42" {
		t.Fatalf("expected id=42, got %v", params)
	}

	if tp.Matches("/users/42/x") {
		t.Fatalf("extra segment must not match")
	}
	if tp.Matches("/users") {
		t.Fatalf("missing segment must not match")
	}
	if tp.Matches("/users/") {
		t.Fatalf("parameter must capture at least one character")
	}
}

func TestPathTemplate_CaseInsensitive(t *testing.T) {
	tp := contract.MustCompilePath("/Users/{id}")
	if !tp.Matches("/users/1") || !tp.Matches("/USERS/1") {
		t.Fatalf("matching must be case-insensitive")
	}
}

func TestPathTemplate_QueryStringStripped(t *testing.T) {
	tp := contract.MustCompilePath("/users/{id}")
	if !tp.Matches("/users/42?expand=orders") {
		t.Fatalf("query string must be stripped before matching")
	}
	params := tp.ExtractParams("/users/42?expand=orders")
	if params["id"] != "42" {
		t.Fatalf("expected id=42, got %v", params)
	}
}

func TestPathTemplate_TrailingSlashIsExact(t *testing.T) {
	tp := contract.MustCompilePath("/users/{id}/")
	if tp.Matches("/users/42") {
		t.Fatalf("trailing slash must not be normalized away")
	}
	if !tp.Matches("/users/42/") {
		t.Fatalf("exact trailing slash must match")
	}
}

func TestPathTemplate_MultipleParams(t *testing.T) {
	tp := contract.MustCompilePath("/users/{userId}/orders/{orderId}")
	params := tp.ExtractParams("/users/7/orders/1009")
	if params["userId"] != "7" || params["orderId"] != "1009" {
		t.Fatalf("unexpected params: %v", params)
	}
	got := tp.Params()
	if len(got) != 2 || got[0] != "userId" || got[1] != "orderId" {
		t.Fatalf("declaration order lost: %v", got)
	}
}

func TestPathTemplate_DuplicateParamKeepsLast(t *testing.T) {
	// regression: a duplicated name retains the last captured value
	tp := contract.MustCompilePath("/pairs/{v}/{v}")
	params := tp.ExtractParams("/pairs/first/second")
	if params["v"] != "second" {
		t.Fatalf("expected last capture to win, got %v", params)
	}
}

func TestPathTemplate_LiteralEscaping(t *testing.T) {
	tp := contract.MustCompilePath("/files/v1.2/{name}")
	if tp.Matches("/files/v1x2/anything") {
		t.Fatalf("dot must be treated literally")
	}
	if !tp.Matches("/files/v1.2/report") {
		t.Fatalf("literal path must match")
	}
}

func TestCompilePath_Errors(t *testing.T) {
	if _, err := contract.CompilePath("/users/{id"); err == nil {
		t.Fatalf("expected error for unclosed parameter")
	}
	if _, err := contract.CompilePath("/users/{}"); err == nil {
		t.Fatalf("expected error for empty parameter name")
	}
}
