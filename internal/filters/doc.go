// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows change records with --filter expressions.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with SNAPLOG_FILTER_DELIM). Keys are column names of the
// records being shown, for example a key column or the changed-field column.
//
// Operators:
//
//   - = : exact match, numeric when both sides are numbers (negate with !=)
//   - ~ : case-insensitive match (!~)
//   - ^ : prefix match (!^)
//   - < : less than, numeric when both sides are numbers
//   - > : greater than, numeric when both sides are numbers
//   - @ : contains substring (!@)
//   - / : regular expression match (!/)
//
// A key with no operator keeps rows where the column has a value.
//
// Examples:
//
//   - "基地=A" : records for base A
//   - "changed_field^price" : fields whose name starts with "price"
//   - "new_value>100" : numeric comparison
//   - "old_value" : records where the old value was not empty
package filters
