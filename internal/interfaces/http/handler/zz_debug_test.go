package handler

import (
	"net/http"
	"testing"
)

func TestDebugSaleCreate(t *testing.T) {
	f := newOrderHandlerFixture(t)
	f.seedStock(t, 10)
	w := f.do(t, http.MethodPost, "/api/v1/orders", f.saleRequest(4, "10.00"))
	t.Logf("code=%d body=%s", w.Code, w.Body.String())
}
