// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package tsfile reads and writes translation catalogs in the TS XML format:

	<?xml version="1.0" encoding="utf-8"?>
	<!DOCTYPE TS>
	<TS version="2.1" language="de_DE">
	<context>
	    <name>AddOperatorAction</name>
	    <message>
	        <source>Add operator</source>
	        <translation>Operator hinzufügen</translation>
	    </message>
	</context>
	</TS>

The type attribute of <translation> maps to [catalog.State]: no attribute is
finished, "unfinished" and "obsolete" map to their states and "vanished" is
read as obsolete. Unknown values are recovered as unfinished and reported as
warnings wrapping [ErrUnknownStateAttribute].

[Marshal] writes contexts and messages in insertion order with the same
layout the Qt tools use, so that re-saving an unchanged catalog produces no
diff. Parsing the output of Marshal yields an equal catalog.

Input compressed as a single zstd frame is decompressed transparently.
*/
package tsfile
