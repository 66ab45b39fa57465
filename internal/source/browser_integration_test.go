package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// TestBrowser_Integration loads a page whose citation appears after a delay.
// Set S2O_BROWSER_TESTS=1 to run it; it needs Chrome or network access for Rod.
func TestBrowser_Integration(t *testing.T) {
	if testing.Short() || os.Getenv("S2O_BROWSER_TESTS") == "" {
		t.Skip("browser integration tests disabled")
	}
	if _, found := launcher.LookPath(); !found && os.Getenv("ROD_BROWSER_BIN") == "" {
		t.Skip("no Chrome binary found")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><script>
setTimeout(function () {
  var pre = document.createElement('pre');
  pre.textContent = '@misc{late, title={Arrived}}';
  document.body.appendChild(pre);
}, 200);
</script></body></html>`))
	}))
	defer srv.Close()

	b := NewBrowser(srv.URL)
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var got string
	var err error
	for i := 0; i < 50; i++ {
		got, err = b.Citation(ctx)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Citation() error = %v", err)
	}
	if !strings.Contains(got, "@misc{late") {
		t.Errorf("Citation() = %q", got)
	}
}
