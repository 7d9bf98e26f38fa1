package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// El cursor keyset debe seguir la dirección del listado: seq > cursor en orden
// ascendente y seq < cursor en descendente. Un cursor ascendente sobre una
// página descendente relee todo lo ya mostrado.
func TestList_CursorSigueLaDireccionDelListado(t *testing.T) {
	q := &scriptedQuerier{}
	repo := NewMovementRepository(q)

	_, err := repo.List(context.Background(), repository.MovementFilter{AfterSeq: 42, Limit: 10})
	require.NoError(t, err)
	_, err = repo.List(context.Background(), repository.MovementFilter{AfterSeq: 42, Limit: 10, Descending: true})
	require.NoError(t, err)

	require.Len(t, q.querys, 2)
	assert.Contains(t, q.querys[0], "seq > $")
	assert.Contains(t, q.querys[0], "ORDER BY seq ASC")
	assert.Contains(t, q.querys[1], "seq < $")
	assert.Contains(t, q.querys[1], "ORDER BY seq DESC")
}

func TestList_SinCursorRespetaElOrdenPedido(t *testing.T) {
	q := &scriptedQuerier{}
	repo := NewMovementRepository(q)

	_, err := repo.List(context.Background(), repository.MovementFilter{Limit: 10, Descending: true})
	require.NoError(t, err)

	require.Len(t, q.querys, 1)
	assert.NotContains(t, q.querys[0], "seq <")
	assert.NotContains(t, q.querys[0], "seq >")
	assert.Contains(t, q.querys[0], "ORDER BY seq DESC")
}

func TestListAuditTrail_CursorDescendenteAvanzaHaciaAtras(t *testing.T) {
	q := &scriptedQuerier{}
	repo := NewMovementRepository(q)

	_, err := repo.ListAuditTrail(context.Background(), repository.MovementFilter{
		AfterSeq: 100, Limit: 50, Descending: true,
	})
	require.NoError(t, err)

	require.Len(t, q.querys, 1)
	assert.Contains(t, q.querys[0], "m.seq < $")
	assert.Contains(t, q.querys[0], "ORDER BY m.seq DESC")
}

func TestListAuditTrail_CursorAscendente(t *testing.T) {
	q := &scriptedQuerier{}
	repo := NewMovementRepository(q)

	_, err := repo.ListAuditTrail(context.Background(), repository.MovementFilter{
		AfterSeq: 100, Limit: 50,
	})
	require.NoError(t, err)

	require.Len(t, q.querys, 1)
	assert.Contains(t, q.querys[0], "m.seq > $")
	assert.Contains(t, q.querys[0], "ORDER BY m.seq ASC")
}
