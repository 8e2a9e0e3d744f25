package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestDefault(t *testing.T) {
	var nilCtx context.Context
	if got := Default(nilCtx); got != context.Background() {
		t.Fatalf("Default(nil)=%v, want context.Background()", got)
	}
	ctx := context.WithValue(context.Background(), requestDataKey{}, &RequestData{})
	if got := Default(ctx); got != ctx {
		t.Fatalf("Default(ctx) returned a different context")
	}
}

func TestUserID(t *testing.T) {
	id := uuid.New()
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("UserID(empty)=%v, want Nil", got)
	}
	if got := UserID(WithRequestData(context.Background(), &RequestData{UserID: id})); got != id {
		t.Fatalf("UserID=%v, want %v", got, id)
	}
}
