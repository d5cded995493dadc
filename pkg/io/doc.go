// Package io reads and writes question statistics as JSON.
//
// # JSON Format
//
// A file holds either one question:
//
//	{
//	  "id": "42",
//	  "title": "Which sort is stable?",
//	  "matrix": {"easy": 0.2, "hard": 0.6, "tricky": 0.1, "peer": 0.1},
//	  "freq": {
//	    "first_choice":  {"A": 12, "B": 3, "C": 5},
//	    "second_choice": {"A": 4, "C": 9}
//	  }
//	}
//
// or a batch, as a bare array or wrapped:
//
//	{"questions": [ {...}, {...} ]}
//
// The matrix must carry exactly the four category keys. Frequency tables are
// open-keyed; every second_choice key must also appear in first_choice.
//
// # Import
//
// Use [ImportJSON] to read a file, or [ReadJSON] to read from any io.Reader.
// Both reject malformed JSON and duplicate question ids. Value ranges are
// checked later, per question, so one bad question does not sink a batch.
//
// # Export
//
// [WriteJSON] and [ExportJSON] always write the wrapped batch form, which
// [ReadJSON] reads back unchanged.
package io
