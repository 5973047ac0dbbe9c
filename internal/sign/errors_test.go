// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/signplot/signplot/internal/lang"
)

func TestPlayerMessage(t *testing.T) {
	catalog := lang.NewCatalog(nil)

	t.Run("maps a coded error to its catalog message", func(t *testing.T) {
		err := oops.Code(CodeMalformedPrice).
			With("input", "cheap").
			Errorf("price is not a number")

		msg := PlayerMessage(catalog, err)

		assert.Equal(t, catalog.Get("error.malformed-price", "input", "cheap"), msg)
		assert.Contains(t, msg, "cheap")
	})

	t.Run("formats money context values", func(t *testing.T) {
		err := oops.Code(CodePriceMismatch).
			With("sign", "90").
			With("region", "150.5").
			Errorf("sign price disagrees with region")

		msg := PlayerMessage(catalog, err)
		assert.Contains(t, msg, "90")
		assert.Contains(t, msg, "150.5")
	})

	t.Run("uncoded oops error falls back to its message", func(t *testing.T) {
		err := oops.With("region", "plotA").Errorf("something odd")
		assert.Equal(t, err.Error(), PlayerMessage(catalog, err))
	})

	t.Run("plain error passes through", func(t *testing.T) {
		err := errors.New("disk full")
		assert.Equal(t, "disk full", PlayerMessage(catalog, err))
	})

	t.Run("unknown code falls back to the message", func(t *testing.T) {
		err := oops.Code("NO_SUCH_CODE").Errorf("mystery")
		assert.Equal(t, err.Error(), PlayerMessage(catalog, err))
	})
}
