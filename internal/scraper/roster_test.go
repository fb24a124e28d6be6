package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Exists(id string) bool {
	_, ok := s.files[id]
	return ok
}

func (s *memoryStore) Ref(id string) string {
	return "Images/plantilla/jugador_" + id + ".png"
}

func (s *memoryStore) Save(id string, data []byte) (string, error) {
	s.files[id] = data
	return s.Ref(id), nil
}

type countingProcessor struct {
	calls int
}

func (p *countingProcessor) Process(_ context.Context, img []byte, _ string) ([]byte, error) {
	p.calls++
	return append([]byte("processed:"), img...), nil
}

const rosterPage = `<html><body><div class="plantilla">
<a class="card_jugador" href="jugador.php?id_jugador=101&id_temp=21">
  <img class="card_imagen_jugador" src="data:image/png;base64,aGVsbG8=">
  <h4>GARCIA<br>
      LOPEZ</h4>
</a>
<a class="card_jugador" href="jugador.php?id_jugador=102">
  <img class="card_imagen_jugador" src="/img/sin_foto.png">
  <h4>PEREZ RUIZ</h4>
</a>
<a class="card_jugador" href="jugador.php"><h4>SIN ID</h4></a>
<a class="card_jugador" href="jugador.php?id_jugador=104"><span>sin nombre</span></a>
<div class="card_jugador"><a href="jugador.php?id_jugador=105"><h4>MARTI</h4></a></div>
</div></body></html>`

func TestRosterExtractor_Extract(t *testing.T) {
	store := newMemoryStore()
	proc := &countingProcessor{}

	players := NewRosterExtractor(store, proc).Extract(context.Background(), rosterPage)
	require.Len(t, players, 3)

	assert.Equal(t, "101", players[0].ID)
	assert.Equal(t, "GARCIA LOPEZ", players[0].Name)
	assert.Equal(t, "Images/plantilla/jugador_101.png", players[0].PhotoRef)

	assert.Equal(t, "102", players[1].ID)
	assert.Empty(t, players[1].PhotoRef, "non data-uri photos are ignored")

	assert.Equal(t, "105", players[2].ID)
	assert.Equal(t, "MARTI", players[2].Name)

	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, "processed:hello", string(store.files["101"]))
}

func TestRosterExtractor_Idempotent(t *testing.T) {
	store := newMemoryStore()
	proc := &countingProcessor{}
	extractor := NewRosterExtractor(store, proc)

	first := extractor.Extract(context.Background(), rosterPage)
	second := extractor.Extract(context.Background(), rosterPage)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, proc.calls, "existing photos must not be reprocessed")
}

func TestRosterExtractor_NoStore(t *testing.T) {
	players := NewRosterExtractor(nil, nil).Extract(context.Background(), rosterPage)
	require.Len(t, players, 3)
	for _, p := range players {
		assert.Empty(t, p.PhotoRef)
	}
}

func TestDecodeDataURI(t *testing.T) {
	data, err := decodeDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = decodeDataURI("data:image/jpeg;base64")
	assert.Error(t, err)

	_, err = decodeDataURI("data:image/jpeg;base64,***")
	assert.Error(t, err)
}
