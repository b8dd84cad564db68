package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsExistingKind(t *testing.T) {
	ref := Referentialf("students.create", "department %d does not exist", 9)
	wrapped := Wrap(KindGateway, "outer", fmt.Errorf("context: %w", ref))

	require.True(t, IsReferential(wrapped))
	require.Equal(t, "context: department 9 does not exist", wrapped.Error())
}

func TestWrap_ClassifiesPlainErrors(t *testing.T) {
	require.Nil(t, Wrap(KindGateway, "op", nil))

	err := Wrap(KindGateway, "teachers.find_many", fmt.Errorf("connection refused"))
	require.Equal(t, KindGateway, KindOf(err))
	require.Equal(t, "connection refused", err.Error())

	var ext interface{ Extensions() map[string]any }
	require.ErrorAs(t, err, &ext)
	require.Equal(t, map[string]any{"code": "GATEWAY"}, ext.Extensions())
}

func TestKindOf_Unclassified(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(fmt.Errorf("plain")))
}
