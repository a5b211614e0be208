package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/zest-order/hub"
)

type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestCartSocket_StreamsCartChanges(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.Router)
	defer srv.Close()

	token := tokenFor(t, "user-ws")
	chai := env.menuByName(t, "Masala Chai")
	env.addItem(t, token, chai.ID)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cart?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// state awal
	msg := readMessage(t, conn)
	assert.Equal(t, hub.EventCartState, msg.Event)
	var state cartJSON
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, 1, state.TotalItems)

	require.Eventually(t, func() bool { return env.Hub.Clients("user-ws") == 1 }, time.Second, 10*time.Millisecond)

	env.addItem(t, token, chai.ID)
	msg = readMessage(t, conn)
	assert.Equal(t, hub.EventCartUpdate, msg.Event)
	var update struct {
		Kind       string `json:"kind"`
		TotalItems int    `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &update))
	assert.Equal(t, "added", update.Kind)
	assert.Equal(t, 2, update.TotalItems)

	fillVegBurgerCart(t, env, token)
	readMessage(t, conn)
	readMessage(t, conn)
	code, order, _ := env.checkout(t, token, map[string]interface{}{"transaction_id": "tx-ws"})
	require.Equal(t, http.StatusCreated, code)

	// consume lalu order_placed
	msg = readMessage(t, conn)
	assert.Equal(t, hub.EventCartUpdate, msg.Event)
	msg = readMessage(t, conn)
	assert.Equal(t, hub.EventOrderPlaced, msg.Event)
	var placed orderJSON
	require.NoError(t, json.Unmarshal(msg.Data, &placed))
	assert.Equal(t, order.ID, placed.ID)
}

func TestCartSocket_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.Router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cart"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
