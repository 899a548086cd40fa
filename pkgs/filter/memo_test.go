package filter

import (
	"testing"

	"github.com/pevogam/cartconf/pkgs/label"
)

func TestFailureRecordMightPassTrustsIdenticalGates(t *testing.T) {
	ctx := mkPath("a", "b")
	rec := FailureRecord{
		Ctx:    ctx,
		CtxSet: ctx.Set(),
	}
	if rec.MightPass(ctx, ctx.Set(), label.NewSet(), nil, nil) {
		t.Fatal("identical ctx and gates should be trusted as still-failing")
	}
}

func TestFailureRecordMightPassOnDifferentCtx(t *testing.T) {
	ctx := mkPath("a", "b")
	other := mkPath("a", "c")
	rec := FailureRecord{Ctx: ctx, CtxSet: ctx.Set()}
	if !rec.MightPass(other, other.Set(), label.NewSet(), nil, nil) {
		t.Fatal("a different ctx should not be trusted as still-failing")
	}
}

func TestFailureRecordMightPassOnDifferentGates(t *testing.T) {
	ctx := mkPath("a")
	rec := FailureRecord{
		Ctx:      ctx,
		CtxSet:   ctx.Set(),
		Internal: []Gate{{Kind: KindOnly, Filter: seqFilter(Sequence{label.New("x")})}},
	}
	if !rec.MightPass(ctx, ctx.Set(), label.NewSet(), nil, nil) {
		t.Fatal("a visit with different internal gates must not trust the recorded failure")
	}
}
