// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator is built on first use and shared; it caches struct
// metadata, so repeated validation of the same request type is cheap.
// Field names in messages come from json tags ("user_id is required").
// Failures convert to the API's VALIDATION_ERROR body through ToAPIError.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
//
// # Custom Tags
//
//   - interaction_type: one of purchase, cart, like, click, dislike
//   - product_id: non-blank, no control characters or path separators
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
