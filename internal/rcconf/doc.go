// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package rcconf reads shell style variable assignments from rc.conf.
//
// Only plain KEY=value assignments are understood. Dataset sources are
// declared with the ioc_dataset_ prefix:
//
//	ioc_dataset_main="zroot/iocage"
//	ioc_dataset_backup="tank/iocage"
//
// The first declared source becomes the main source.
package rcconf
