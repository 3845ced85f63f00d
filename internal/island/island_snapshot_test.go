package island

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/conneroisu/islet/internal/metadata"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestIslandHTML_Snapshot(t *testing.T) {
	isl := &Island{
		ID:                       "00000000-0000-0000-0000-000000000001",
		ComponentURL:             "src/components/user-card.jsx",
		ComponentExport:          "default",
		DisplayName:              "User Card",
		RendererClientEntrypoint: "@islet/react/client.js",
		Directive:                metadata.DirectiveLoad,
		Props:                    json.RawMessage(`{"name":"Ada","age":36}`),
		InnerHTML:                `<div class="card">Ada</div>`,
	}

	snaps.WithConfig(snaps.Ext(".html")).MatchSnapshot(t, isl.HTML())
}

func TestIslandHTML_MediaDirective_Snapshot(t *testing.T) {
	isl := &Island{
		ID:                       "00000000-0000-0000-0000-000000000002",
		ComponentURL:             "src/components/sidebar.svelte",
		ComponentExport:          "default",
		DisplayName:              "Sidebar",
		RendererClientEntrypoint: "@islet/svelte/client.js",
		Directive:                metadata.DirectiveMedia,
		DirectiveValue:           "(max-width: 600px)",
		Props:                    json.RawMessage(`{}`),
		InnerHTML:                "<nav>menu</nav>",
	}

	snaps.WithConfig(snaps.Ext(".html")).MatchSnapshot(t, isl.HTML())
}
