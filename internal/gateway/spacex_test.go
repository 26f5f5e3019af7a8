package gateway

import (
	"encoding/json"
	"net/http"
	"testing"
)

// testLaunches はモック上流が返す打ち上げ一覧。
const testLaunches = `[
	{"flight_number":1,"mission_name":"FalconSat","rocket":{"rocket_id":"falcon1"}},
	{"flight_number":6,"mission_name":"Falcon 9 Test Flight","rocket":{"rocket_id":"falcon9"}},
	{"flight_number":9,"mission_name":"COTS 2","rocket":{"rocket_id":"falcon9"}},
	{"flight_number":99,"rocket":{"rocket_id":"falconheavy"}}
]`

// decodeLaunches はレスポンスボディを打ち上げレコードの配列として読む。
func decodeLaunches(t *testing.T, body []byte) []map[string]any {
	t.Helper()

	var launches []map[string]any
	if err := json.Unmarshal(body, &launches); err != nil {
		t.Fatalf("レスポンスボディのパースに失敗: %v, body=%s", err, string(body))
	}
	return launches
}

// TestHandleLaunches は打ち上げ一覧ハンドラを検証する。
func TestHandleLaunches(t *testing.T) {
	t.Parallel()

	t.Run("mission_nameで大文字小文字を区別せずに絞り込むこと", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v3/launches" {
				t.Errorf("上流パス = %q, want %q", r.URL.Path, "/v3/launches")
			}
			writeJSON(w, http.StatusOK, testLaunches)
		})

		w := doRequest(t, s, http.MethodGet, "/api/launches?mission_name=falcon", "")

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		launches := decodeLaunches(t, w.Body.Bytes())
		if len(launches) != 2 {
			t.Fatalf("件数 = %d, want 2", len(launches))
		}
		if launches[0]["mission_name"] != "FalconSat" || launches[1]["mission_name"] != "Falcon 9 Test Flight" {
			t.Errorf("mission_name = %v, %v", launches[0]["mission_name"], launches[1]["mission_name"])
		}
		rocket, ok := launches[1]["rocket"].(map[string]any)
		if !ok || rocket["rocket_id"] != "falcon9" {
			t.Errorf("レコードがそのまま返されていない: %v", launches[1])
		}
	})

	t.Run("mission_nameが無い場合は全件を返すこと", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, testLaunches)
		})

		w := doRequest(t, s, http.MethodGet, "/api/launches", "")

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := len(decodeLaunches(t, w.Body.Bytes())); got != 4 {
			t.Errorf("件数 = %d, want 4", got)
		}
	})

	t.Run("一致するものが無い場合は空配列を返すこと", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, testLaunches)
		})

		w := doRequest(t, s, http.MethodGet, "/api/launches?mission_name=starship", "")

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if w.Body.String() != "[]" {
			t.Errorf("body = %s, want []", w.Body.String())
		}
	})

	t.Run("ペイロードが配列でない場合は500が返ること", func(t *testing.T) {
		t.Parallel()

		for _, payload := range []string{`{"launches":[]}`, `null`, `"falcon"`} {
			s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, payload)
			})

			w := doRequest(t, s, http.MethodGet, "/api/launches", "")

			if w.Code != http.StatusInternalServerError {
				t.Errorf("payload=%s: ステータスコード = %d, want %d", payload, w.Code, http.StatusInternalServerError)
			}
			if got := decodeErrorEnvelope(t, w); got != "Failed to fetch launches" {
				t.Errorf("payload=%s: error = %q, want %q", payload, got, "Failed to fetch launches")
			}
		}
	})

	t.Run("オブジェクトでない要素を含む配列でも200が返ること", func(t *testing.T) {
		t.Parallel()

		for _, tt := range []struct {
			target string
			want   string
		}{
			{target: "/api/launches", want: `[1,"x"]`},
			{target: "/api/launches?mission_name=x", want: `[]`},
		} {
			s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, `[1,"x"]`)
			})

			w := doRequest(t, s, http.MethodGet, tt.target, "")

			if w.Code != http.StatusOK {
				t.Errorf("%s: ステータスコード = %d, want %d", tt.target, w.Code, http.StatusOK)
			}
			if w.Body.String() != tt.want {
				t.Errorf("%s: body = %s, want %s", tt.target, w.Body.String(), tt.want)
			}
		}
	})

	t.Run("上流のステータスコードが反映されること", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, `{"message":"down"}`)
		})

		w := doRequest(t, s, http.MethodGet, "/api/launches", "")

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

// TestHandleRockets はロケット一覧ハンドラを検証する。
func TestHandleRockets(t *testing.T) {
	t.Parallel()

	t.Run("APIキー無しでペイロードをそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		s, backend := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v3/rockets" {
				t.Errorf("上流パス = %q, want %q", r.URL.Path, "/v3/rockets")
			}
			writeJSON(w, http.StatusOK, `[{"rocket_id":"falcon9","rocket_name":"Falcon 9"}]`)
		})

		w := doRequest(t, s, http.MethodGet, "/api/rockets", "")

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if w.Body.String() != `[{"rocket_id":"falcon9","rocket_name":"Falcon 9"}]` {
			t.Errorf("body = %s", w.Body.String())
		}
		if backend.Calls() != 1 {
			t.Errorf("上流呼び出し回数 = %d, want 1", backend.Calls())
		}
	})

	t.Run("上流が失敗した場合はエラーエンベロープが返ること", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestServerWithBackend(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadGateway, `upstream exploded`)
		})

		w := doRequest(t, s, http.MethodGet, "/api/rockets", "")

		if w.Code != http.StatusBadGateway {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadGateway)
		}
		if got := decodeErrorEnvelope(t, w); got != "Failed to fetch rockets" {
			t.Errorf("error = %q, want %q", got, "Failed to fetch rockets")
		}
	})
}

// TestFilterLaunches はfilterLaunches関数を検証する。
func TestFilterLaunches(t *testing.T) {
	t.Parallel()

	launches := []json.RawMessage{
		json.RawMessage(`{"mission_name":"CRS-1"}`),
		json.RawMessage(`{"mission_name":42}`),
		json.RawMessage(`{"flight_number":3}`),
		json.RawMessage(`"CRS-3"`),
		json.RawMessage(`7`),
		json.RawMessage(`null`),
		json.RawMessage(`{"mission_name":"crs-2"}`),
	}

	t.Run("空の名前では元のスライスを返すこと", func(t *testing.T) {
		t.Parallel()

		if got := filterLaunches(launches, ""); len(got) != len(launches) {
			t.Errorf("件数 = %d, want %d", len(got), len(launches))
		}
	})

	t.Run("オブジェクトでない要素や文字列でないmission_nameは一致しないこと", func(t *testing.T) {
		t.Parallel()

		got := filterLaunches(launches, "CRS")
		if len(got) != 2 {
			t.Fatalf("件数 = %d, want 2", len(got))
		}
		if missionName(got[0]) != "CRS-1" || missionName(got[1]) != "crs-2" {
			t.Errorf("mission_name = %q, %q", missionName(got[0]), missionName(got[1]))
		}
	})
}
