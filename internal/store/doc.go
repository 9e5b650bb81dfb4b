// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

/*
Package store provides the file- and badger-backed stores behind the admin
API and the Discord bot.

  - WhitelistStore: {"ips":[...]} JSON file shared by the bot and the admin
    API. A missing or unreadable file yields {"ips":["127.0.0.1"]}.
  - LinkStore: {"links":[...]} JSON file of social links.
  - UploadStore: media files under the upload directory, type-sniffed on save.
  - ViewCounter: page view count, in memory or persisted in badger.

JSON files are written to a temporary file in the same directory and renamed
into place, so readers never observe a partially written file.
*/
package store
