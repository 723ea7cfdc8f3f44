package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/catalogtest"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

type cheap struct{}

func (cheap) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src.Where("price < ?", 12)
}

func (cheap) Name() string { return "cheap" }

type unnamed struct{}

func (unnamed) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src
}

var byPrice = query.Func[catalog.Product, catalog.Product](func(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src.OrderBy("price").OrderBy("id")
})

func products(t *testing.T) queryable.Queryable[catalog.Product] {
	t.Helper()
	return queryable.From[catalog.Product](catalogtest.Open(t).Source())
}

func productNames(ps []catalog.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func sameNames(got []catalog.Product, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Name != want[i] {
			return false
		}
	}
	return true
}

// TestNameOf tests name resolution for named and unnamed queries.
func TestNameOf(t *testing.T) {
	tests := []struct {
		name string
		q    any
		want string
	}{
		{"named", cheap{}, "cheap"},
		{"unnamed", unnamed{}, "query_test.unnamed"},
		{"pointer", &unnamed{}, "query_test.unnamed"},
		{"identity", query.Identity[catalog.Product](), "identity"},
		{"chain", query.Chain[catalog.Product, catalog.Product, catalog.Product](cheap{}, byPrice), "cheap+query.Func"},
		{"terminal", query.Count[catalog.Product, catalog.Product](cheap{}), "count(cheap)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := query.NameOf(tt.q); got != tt.want {
				t.Errorf("NameOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestChain tests that chained queries apply in order.
func TestChain(t *testing.T) {
	src := products(t)
	ctx := context.Background()

	q := query.Chain[catalog.Product, catalog.Product, catalog.Product](cheap{}, byPrice)
	got, err := q.Apply(src).ToList(ctx)
	if err != nil {
		t.Fatalf("ToList() failed: %v", err)
	}
	if !sameNames(got, "Cherry", "Apple") {
		t.Errorf("Chain() = %v, want [Cherry Apple]", productNames(got))
	}

	// Chaining with identity changes nothing.
	ident := query.Chain[catalog.Product, catalog.Product, catalog.Product](query.Identity[catalog.Product](), q)
	got, err = ident.Apply(src).ToList(ctx)
	if err != nil {
		t.Fatalf("ToList() failed: %v", err)
	}
	if !sameNames(got, "Cherry", "Apple") {
		t.Errorf("identity chain = %v", productNames(got))
	}
}

// TestTerminals tests the standard terminal queries.
func TestTerminals(t *testing.T) {
	src := products(t)
	ctx := context.Background()

	list, err := query.Execute(ctx, src, query.ToList[catalog.Product, catalog.Product](byPrice))
	if err != nil {
		t.Fatalf("ToList failed: %v", err)
	}
	if !sameNames(list, "Cherry", "Apple", "Banana") {
		t.Errorf("ToList = %v", productNames(list))
	}

	first, err := query.Execute(ctx, src, query.FirstOrDefault[catalog.Product, catalog.Product](byPrice))
	if err != nil {
		t.Fatalf("FirstOrDefault failed: %v", err)
	}
	if first == nil || first.Name != "Cherry" {
		t.Errorf("FirstOrDefault = %+v, want Cherry", first)
	}

	n, err := query.Execute(ctx, src, query.Count[catalog.Product, catalog.Product](cheap{}))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	found, err := query.Execute(ctx, src, query.Any[catalog.Product, catalog.Product](cheap{}))
	if err != nil {
		t.Fatalf("Any failed: %v", err)
	}
	if !found {
		t.Error("Any = false, want true")
	}
}

// TestPage tests windows over a query and the unpaged total.
func TestPage(t *testing.T) {
	src := products(t)
	ctx := context.Background()

	tests := []struct {
		name string
		p    query.Pagination
		want []string
	}{
		{"first page", query.Pagination{Skip: 0, Take: 2}, []string{"Cherry", "Apple"}},
		{"second page", query.Pagination{Skip: 2, Take: 2}, []string{"Banana"}},
		{"past end", query.Pagination{Skip: 5, Take: 2}, []string{}},
		{"unbounded", query.Pagination{Skip: 1}, []string{"Apple", "Banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := query.Execute(ctx, src, query.Page[catalog.Product, catalog.Product](byPrice, tt.p))
			if err != nil {
				t.Fatalf("Page failed: %v", err)
			}
			if page.Total != 3 {
				t.Errorf("Total = %d, want 3", page.Total)
			}
			if !sameNames(page.Items, tt.want...) {
				t.Errorf("Items = %v, want %v", productNames(page.Items), tt.want)
			}
			if page.Skip != tt.p.Skip || page.Take != tt.p.Take {
				t.Errorf("window = %d/%d, want %d/%d", page.Skip, page.Take, tt.p.Skip, tt.p.Take)
			}
		})
	}
}

// TestInvoke_Modes tests that both modes produce the same result.
func TestInvoke_Modes(t *testing.T) {
	src := products(t)
	ctx := context.Background()
	count := query.Count[catalog.Product, catalog.Product](cheap{})

	for _, mode := range []query.Mode{query.Sync, query.Async} {
		t.Run(mode.String(), func(t *testing.T) {
			n, err := query.Invoke(ctx, src, count, mode).Await(ctx)
			if err != nil {
				t.Fatalf("Invoke() failed: %v", err)
			}
			if n != 2 {
				t.Errorf("Invoke() = %d, want 2", n)
			}
		})
	}

	n, err := query.ExecuteAsync(ctx, src, count).Result()
	if err != nil {
		t.Fatalf("ExecuteAsync() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ExecuteAsync() = %d, want 2", n)
	}
}

// TestInvoke_Canceled tests that a cancelled context is reported in both modes.
func TestInvoke_Canceled(t *testing.T) {
	src := products(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list := query.ToList[catalog.Product, catalog.Product](byPrice)
	for _, mode := range []query.Mode{query.Sync, query.Async} {
		t.Run(mode.String(), func(t *testing.T) {
			got, err := query.Invoke(ctx, src, list, mode).Result()
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Invoke() error = %v, want context.Canceled", err)
			}
			if got != nil {
				t.Errorf("Invoke() result = %v, want nil", got)
			}
		})
	}
}

// TestContextQueries tests queries over the whole data source.
func TestContextQueries(t *testing.T) {
	db := catalogtest.Open(t)
	ctx := context.Background()

	categories := query.ContextFunc[catalog.Category](func(src queryable.Source) queryable.Queryable[catalog.Category] {
		return queryable.From[catalog.Category](src).OrderBy("name")
	})
	got, err := query.ApplyContext(db.Source(), categories).ToList(ctx)
	if err != nil {
		t.Fatalf("ToList() failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fruit" {
		t.Errorf("categories = %+v", got)
	}

	total := query.ContextTerminalFunc[int64](func(ctx context.Context, src queryable.Source) (int64, error) {
		return queryable.From[catalog.Product](src).Count(ctx)
	})
	for _, mode := range []query.Mode{query.Sync, query.Async} {
		n, err := query.InvokeContext(ctx, db.Source(), total, mode).Result()
		if err != nil {
			t.Fatalf("InvokeContext(%s) failed: %v", mode, err)
		}
		if n != 3 {
			t.Errorf("InvokeContext(%s) = %d, want 3", mode, n)
		}
	}
}

// TestFuture tests completion, awaiting and cancellation of futures.
func TestFuture(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		f := query.Resolved(42, nil)
		select {
		case <-f.Done():
		default:
			t.Fatal("Resolved future is not done")
		}
		if v, err := f.Result(); v != 42 || err != nil {
			t.Errorf("Result() = %d, %v", v, err)
		}
	})

	t.Run("error zeroes result", func(t *testing.T) {
		boom := errors.New("boom")
		v, err := query.Resolved(42, boom).Result()
		if !errors.Is(err, boom) || v != 0 {
			t.Errorf("Result() = %d, %v", v, err)
		}
	})

	t.Run("cancel during work", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		f := query.Go(ctx, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 7, nil
		})
		<-started
		cancel()

		v, err := f.Result()
		if !errors.Is(err, context.Canceled) || v != 0 {
			t.Errorf("Result() = %d, %v, want 0, context.Canceled", v, err)
		}
	})

	t.Run("await deadline", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		f := query.Go(context.Background(), func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Await() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

// TestMode_String tests mode labels.
func TestMode_String(t *testing.T) {
	tests := []struct {
		mode query.Mode
		want string
	}{
		{query.Sync, "sync"},
		{query.Async, "async"},
		{query.Mode(9), "mode(9)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", uint8(tt.mode), got, tt.want)
		}
	}
}
