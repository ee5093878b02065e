package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamsort/pkg/platform/sentinel"
	"teamsort/pkg/platform/tx"
)

func TestSQLiteSaveJoinsContextTx(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer st.Close()

	outer, err := st.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, st.Save(tx.WithTx(ctx, outer), sampleSnapshot()))
	require.NoError(t, outer.Rollback())

	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "rolled back with the outer transaction")

	require.NoError(t, st.Save(ctx, sampleSnapshot()))
	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Roster, 2)
}
