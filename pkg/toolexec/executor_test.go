package toolexec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewRegistry([]Definition{
		{
			Name:        "count-things",
			Description: "Count things in a window of days",
			Parameters: []Parameter{
				{Name: "days", Type: "integer", Description: "Window in days", Default: 30, Minimum: floatPtr(1), Maximum: floatPtr(90)},
				{Name: "status", Type: "string", Description: "Optional status filter", Enum: []string{"pending", "delivered"}},
			},
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return map[string]interface{}{"count": 7, "days": args["days"]}, nil
			},
		},
		{
			Name:        "lookup-thing",
			Description: "Fetch one thing by id",
			Parameters: []Parameter{
				{Name: "id", Type: "string", Description: "Thing identifier", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return nil, errors.New("store unreachable")
			},
		},
	})
	require.NoError(t, err)
	return reg
}

func TestNewRegistry(t *testing.T) {
	t.Run("should reject duplicate names", func(t *testing.T) {
		def := Definition{
			Name:        "dup",
			Description: "d",
			Handler:     func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil },
		}

		_, err := NewRegistry([]Definition{def, def})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("should reject definitions without handler", func(t *testing.T) {
		_, err := NewRegistry([]Definition{{Name: "x", Description: "d"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "handler")
	})

	t.Run("should list names in lexical order", func(t *testing.T) {
		reg := testRegistry(t)
		assert.Equal(t, []string{"count-things", "lookup-thing"}, reg.Names())
	})
}

func TestDispatchValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject unknown tool names as validation failures", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{ID: "r1", Name: "no-such-tool"})
		assert.False(t, res.Success)
		assert.True(t, res.Validation)
		assert.Contains(t, res.Error, "unknown tool")
	})

	t.Run("should reject days outside the allowed window", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		for _, days := range []int{0, -3, 91, 400} {
			res := exec.Dispatch(ctx, Request{
				Name:      "count-things",
				Arguments: map[string]interface{}{"days": days},
			})
			assert.False(t, res.Success, "days=%d", days)
			assert.True(t, res.Validation, "days=%d", days)
		}
	})

	t.Run("should reject values outside the enum", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{
			Name:      "count-things",
			Arguments: map[string]interface{}{"status": "teleported"},
		})
		assert.True(t, res.Validation)
	})

	t.Run("should reject missing required arguments", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{Name: "lookup-thing"})
		assert.True(t, res.Validation)
		assert.Contains(t, res.Error, "id")
	})

	t.Run("should reject unexpected arguments", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{
			Name:      "count-things",
			Arguments: map[string]interface{}{"dayz": 30},
		})
		assert.True(t, res.Validation)
	})
}

func TestDispatchExecution(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply documented defaults", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{ID: "r2", Name: "count-things"})
		require.True(t, res.Success)

		output := res.Output.(map[string]interface{})
		assert.Equal(t, 30, output["days"])
		assert.Equal(t, "r2", res.RequestID)
	})

	t.Run("should prefer caller arguments over defaults", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{
			Name:      "count-things",
			Arguments: map[string]interface{}{"days": 7},
		})
		require.True(t, res.Success)
		assert.Equal(t, 7, res.Output.(map[string]interface{})["days"])
	})

	t.Run("should surface handler errors as non-validation failures", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		res := exec.Dispatch(ctx, Request{
			Name:      "lookup-thing",
			Arguments: map[string]interface{}{"id": "t-1"},
		})
		assert.False(t, res.Success)
		assert.False(t, res.Validation)
		assert.Contains(t, res.Error, "store unreachable")
		assert.Error(t, res.Err)
	})

	t.Run("should not mutate the request arguments", func(t *testing.T) {
		exec := NewExecutor(testRegistry(t))

		args := map[string]interface{}{}
		exec.Dispatch(ctx, Request{Name: "count-things", Arguments: args})
		assert.Empty(t, args)
	})
}

func TestInputSchema(t *testing.T) {
	t.Run("should carry bounds and enums", func(t *testing.T) {
		reg := testRegistry(t)
		def := reg.Get("count-things")
		require.NotNil(t, def)

		schema := def.InputSchema()
		props := schema["properties"].(map[string]interface{})
		days := props["days"].(map[string]interface{})

		assert.Equal(t, float64(1), days["minimum"])
		assert.Equal(t, float64(90), days["maximum"])
		assert.Equal(t, false, schema["additionalProperties"])

		status := props["status"].(map[string]interface{})
		assert.Equal(t, []string{"pending", "delivered"}, status["enum"])
	})
}
