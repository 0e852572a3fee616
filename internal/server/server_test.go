package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type testEnv struct {
	t     *testing.T
	srv   *httptest.Server
	store *garden.MemoryStore
	svc   *garden.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := garden.NewMemoryStore()
	svc := garden.NewService(store.Channels(), store.Blocks(), store.Connections(), nil)
	srv := httptest.NewServer(New(svc, nil, nil).Router())
	t.Cleanup(srv.Close)
	return &testEnv{t: t, srv: srv, store: store, svc: svc}
}

// post sends an operation request and decodes the response into out (which
// may be nil). It returns the HTTP status code.
func (e *testEnv) post(op string, body, out any) int {
	e.t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(e.t, err)

	resp, err := http.Post(e.srv.URL+"/api/"+op, "application/json", bytes.NewReader(payload))
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) mustCreateChannel(title string) garden.Channel {
	e.t.Helper()
	var channel garden.Channel
	status := e.post("channel.create", map[string]any{"title": title}, &channel)
	require.Equal(e.t, http.StatusOK, status)
	return channel
}

func (e *testEnv) mustCreateTextBlock(body string) garden.Block {
	e.t.Helper()
	var block garden.Block
	status := e.post("block.create", map[string]any{
		"content": map[string]any{"type": "text", "body": body},
	}, &block)
	require.Equal(e.t, http.StatusOK, status)
	return block
}

func TestChannelCreateAndGet(t *testing.T) {
	e := newTestEnv(t)

	created := e.mustCreateChannel("Reading List")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Reading List", created.Title)

	var got garden.Channel
	status := e.post("channel.get", map[string]any{"id": created.ID}, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, got.ID)
}

func TestChannelCreateRejectsBlankTitle(t *testing.T) {
	e := newTestEnv(t)

	var env errorEnvelope
	status := e.post("channel.create", map[string]any{"title": "   "}, &env)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, env.Code)
}

func TestChannelGetMissingEnvelope(t *testing.T) {
	e := newTestEnv(t)

	var env errorEnvelope
	status := e.post("channel.get", map[string]any{"id": "missing-id"}, &env)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeChannelNotFound, env.Code)
	assert.Equal(t, "missing-id", env.EntityID)
}

func TestChannelUpdateFieldProtocol(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("Notes")

	// Set the description.
	var updated garden.Channel
	status := e.post("channel.update", map[string]any{
		"id": channel.ID,
		"update": map[string]any{
			"description": map[string]any{"action": "set", "value": "scratchpad"},
		},
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "scratchpad", *updated.Description)
	assert.Equal(t, "Notes", updated.Title, "omitted title is kept")

	// Keep by omission.
	status = e.post("channel.update", map[string]any{
		"id":     channel.ID,
		"update": map[string]any{"title": "Notes v2"},
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "scratchpad", *updated.Description)

	// Clear. Decode into a fresh value: the response omits a cleared
	// description entirely, which would leave a stale pointer untouched.
	var cleared garden.Channel
	status = e.post("channel.update", map[string]any{
		"id": channel.ID,
		"update": map[string]any{
			"description": map[string]any{"action": "clear"},
		},
	}, &cleared)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, cleared.Description)
}

func TestChannelListPagination(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 5; i++ {
		e.mustCreateChannel(fmt.Sprintf("channel %d", i))
	}

	var page garden.Page[garden.Channel]
	status := e.post("channel.list", map[string]any{"limit": 2, "offset": 2}, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "channel 2", page.Items[0].Title, "newest first")
}

func TestChannelDeleteAndCount(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("doomed")

	var count struct {
		Count int `json:"count"`
	}
	e.post("channel.count", struct{}{}, &count)
	assert.Equal(t, 1, count.Count)

	status := e.post("channel.delete", map[string]any{"id": channel.ID}, nil)
	assert.Equal(t, http.StatusOK, status)

	e.post("channel.count", struct{}{}, &count)
	assert.Equal(t, 0, count.Count)
}

func TestBlockCreateAllFields(t *testing.T) {
	e := newTestEnv(t)

	var block garden.Block
	status := e.post("block.create", map[string]any{
		"content":    map[string]any{"type": "link", "url": "https://example.com/essay", "title": "An Essay"},
		"source_url": "https://example.com",
		"creator":    "someone",
	}, &block)
	require.Equal(t, http.StatusOK, status)

	link, ok := block.Content.(garden.LinkContent)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/essay", link.URL)
	require.NotNil(t, block.Creator)
	assert.Equal(t, "someone", *block.Creator)
}

func TestBlockCreateRejectsInvalidContent(t *testing.T) {
	e := newTestEnv(t)

	var env errorEnvelope
	status := e.post("block.create", map[string]any{
		"content": map[string]any{"type": "link", "url": "not a url"},
	}, &env)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, env.Code)
}

func TestBlockCreateBatchRejectsAllOnOneInvalid(t *testing.T) {
	e := newTestEnv(t)

	var env errorEnvelope
	status := e.post("block.createBatch", map[string]any{
		"blocks": []map[string]any{
			{"content": map[string]any{"type": "text", "body": "fine"}},
			{"content": map[string]any{"type": "text", "body": "   "}},
		},
	}, &env)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, env.Code)
}

func TestBlockUpdateFieldProtocol(t *testing.T) {
	e := newTestEnv(t)
	block := e.mustCreateTextBlock("draft")

	var updated garden.Block
	status := e.post("block.update", map[string]any{
		"id": block.ID,
		"update": map[string]any{
			"content": map[string]any{"type": "text", "body": "final"},
			"notes":   map[string]any{"action": "set", "value": "rewritten"},
		},
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, garden.TextContent{Body: "final"}, updated.Content)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rewritten", *updated.Notes)
}

func TestConnectionLifecycle(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("mix")
	b1 := e.mustCreateTextBlock("one")
	b2 := e.mustCreateTextBlock("two")

	var conn garden.Connection
	status := e.post("connection.connect", map[string]any{
		"blockId": b1.ID, "channelId": channel.ID,
	}, &conn)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, conn.Position)

	status = e.post("connection.connect", map[string]any{
		"blockId": b2.ID, "channelId": channel.ID,
	}, &conn)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, conn.Position)

	// Duplicate pair is a validation failure.
	var env errorEnvelope
	status = e.post("connection.connect", map[string]any{
		"blockId": b1.ID, "channelId": channel.ID,
	}, &env)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeValidation, env.Code)

	var listing struct {
		Blocks []garden.Block `json:"blocks"`
	}
	status = e.post("connection.blocksInChannel", map[string]any{"channelId": channel.ID}, &listing)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listing.Blocks, 2)
	assert.Equal(t, b1.ID, listing.Blocks[0].ID)

	status = e.post("connection.disconnect", map[string]any{
		"blockId": b1.ID, "channelId": channel.ID,
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	status = e.post("connection.get", map[string]any{
		"blockId": b1.ID, "channelId": channel.ID,
	}, &env)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeConnectionNotFound, env.Code)
}

func TestConnectBatchAndReorder(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("ordered")
	b1 := e.mustCreateTextBlock("one")
	b2 := e.mustCreateTextBlock("two")

	var batch struct {
		Connections []garden.Connection `json:"connections"`
	}
	status := e.post("connection.connectBatch", map[string]any{
		"blockIds": []garden.BlockID{b1.ID, b2.ID}, "channelId": channel.ID,
	}, &batch)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, batch.Connections, 2)
	assert.Equal(t, 0, batch.Connections[0].Position)
	assert.Equal(t, 1, batch.Connections[1].Position)

	status = e.post("connection.reorder", map[string]any{
		"channelId": channel.ID, "blockId": b2.ID, "position": -1,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var listing struct {
		Blocks []garden.BlockWithPosition `json:"blocks"`
	}
	status = e.post("connection.blocksWithPositions", map[string]any{"channelId": channel.ID}, &listing)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listing.Blocks, 2)
	assert.Equal(t, b2.ID, listing.Blocks[0].Block.ID)
	assert.Equal(t, -1, listing.Blocks[0].Position)
}

func TestChannelsForBlock(t *testing.T) {
	e := newTestEnv(t)
	ch1 := e.mustCreateChannel("first")
	ch2 := e.mustCreateChannel("second")
	block := e.mustCreateTextBlock("shared")

	for _, ch := range []garden.Channel{ch1, ch2} {
		status := e.post("connection.connect", map[string]any{
			"blockId": block.ID, "channelId": ch.ID,
		}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var listing struct {
		Channels []garden.Channel `json:"channels"`
	}
	status := e.post("connection.channelsForBlock", map[string]any{"blockId": block.ID}, &listing)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listing.Channels, 2)
	assert.Equal(t, ch2.ID, listing.Channels[0].ID, "most recently connected first")
}

func TestDeleteChannelKeepsBlocks(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("temp")
	block := e.mustCreateTextBlock("survivor")

	status := e.post("connection.connect", map[string]any{
		"blockId": block.ID, "channelId": channel.ID,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	status = e.post("channel.delete", map[string]any{"id": channel.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	var got garden.Block
	status = e.post("block.get", map[string]any{"id": block.ID}, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, block.ID, got.ID)
}

func TestMalformedBodyEnvelope(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Post(e.srv.URL+"/api/channel.create", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeValidation, env.Code)
}

func TestMediaUnconfiguredEnvelope(t *testing.T) {
	e := newTestEnv(t)

	var env errorEnvelope
	status := e.post("media.exists", map[string]any{"path": "images/x.png"}, &env)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, codeInitialization, env.Code)
}

func TestLeakedRepositoryErrors(t *testing.T) {
	// Errors the service normally intercepts still classify sensibly when
	// they reach the transport raw.
	env, status := classify(fmt.Errorf("update channel: %w", garden.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, codeDatabase, env.Code)

	env, status = classify(fmt.Errorf("scan channel: %w", garden.ErrInvalidDatetime))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, codeDatabase, env.Code)
}

func TestDuplicateSurfacesConflict(t *testing.T) {
	e := newTestEnv(t)
	channel := e.mustCreateChannel("race")
	block := e.mustCreateTextBlock("b")

	// Insert the pair behind the service's back so the storage-level
	// duplicate, not the pre-check, fires.
	require.NoError(t, e.store.Connections().Connect(context.Background(), block.ID, channel.ID, 0))

	err := e.store.Connections().Connect(context.Background(), block.ID, channel.ID, 1)
	env, status := classify(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, codeDuplicate, env.Code)
}
