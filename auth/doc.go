// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides owner keys, identifiers and respondent hashing.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys for the
owner of a questionnaire or survey:

	adminKey := auth.GenerateAdminKey(auth.ScopeSurvey, surveyID, salt)
	err := auth.ValidateAdminKey(auth.ScopeSurvey, surveyID, adminKey, salt)

The scope is part of the MAC input, so a questionnaire key never validates
for a survey. Keys are URL-safe base64 without padding and are never stored.

# Respondents

Submissions without an X-Respondent-ID header get a generated id:

	id := auth.AnonymousRespondentID() // anonymous-<uuid>

# ID Generation

Random hex IDs for questionnaires and surveys:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Client addresses are stored only as a salted hash:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
