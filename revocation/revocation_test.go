package revocation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/chimerakang/authgate/revocation"
)

func TestRevokeAndIsRevoked(t *testing.T) {
	r := revocation.NewRegistry()
	ctx := context.Background()

	if r.IsRevoked(ctx, "tok") {
		t.Fatal("token revoked before Revoke")
	}

	r.Revoke(ctx, "tok")
	if !r.IsRevoked(ctx, "tok") {
		t.Fatal("token not revoked after Revoke")
	}
	if r.IsRevoked(ctx, "other") {
		t.Fatal("unrelated token reported revoked")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	r := revocation.NewRegistry()
	ctx := context.Background()

	r.Revoke(ctx, "tok")
	r.Revoke(ctx, "tok")

	if !r.IsRevoked(ctx, "tok") {
		t.Fatal("token not revoked")
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestConcurrentRevoke(t *testing.T) {
	r := revocation.NewRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tok := fmt.Sprintf("tok-%d-%d", n, j)
				r.Revoke(ctx, tok)
				if !r.IsRevoked(ctx, tok) {
					t.Errorf("token %s not revoked", tok)
				}
			}
		}(i)
	}
	wg.Wait()

	if got := r.Len(); got != 16*100 {
		t.Errorf("Len() = %d, want %d", got, 16*100)
	}
}
