package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/careers-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCounter struct{ mock.Mock }

func (m *mockCounter) CountByEmail(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)
	return args.Int(0), args.Error(1)
}

func TestStatus_RemainingPerCount(t *testing.T) {
	cases := []struct {
		count         int
		wantRemaining int
		wantCanSubmit bool
	}{
		{0, 3, true},
		{1, 2, true},
		{2, 1, true},
		{3, 0, false},
		{4, 0, false}, // over the cap via the known concurrent-insert race
	}
	for _, tc := range cases {
		mc := &mockCounter{}
		mc.On("CountByEmail", mock.Anything, "a@b.com").Return(tc.count, nil)

		st, err := NewService(mc, 3).Status(context.Background(), "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, tc.count, st.Count)
		assert.Equal(t, 3, st.Limit)
		assert.Equal(t, tc.wantRemaining, st.Remaining, "count=%d", tc.count)
		assert.Equal(t, tc.wantCanSubmit, st.CanSubmit(), "count=%d", tc.count)
	}
}

func TestStatus_StoreFailure(t *testing.T) {
	mc := &mockCounter{}
	mc.On("CountByEmail", mock.Anything, "a@b.com").Return(0, errors.New("dynamo down"))

	_, err := NewService(mc, 3).Status(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollaborator))
}
