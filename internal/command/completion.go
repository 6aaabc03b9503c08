// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/meta"
)

const bashCompletionScript = `# bash completion for jailctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_jailctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "list sources activate deactivate which completion --dataset -d --rc-conf --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --output -o --padding -p --sort -s --titles -t"

    case "$cmd" in
        list)
            local opts="$common --source -S"
            ;;
        sources)
            local opts="$common"
            ;;
        activate)
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "$(zpool list -H -o name 2>/dev/null)" -- "$cur") )
                return 0
            fi
            local opts="--mountpoint -m"
            ;;
        which)
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "$(zfs list -H -o name 2>/dev/null)" -- "$cur") )
                return 0
            fi
            local opts=""
            ;;
        completion)
            local opts="bash zsh"
            ;;
        *)
            local opts=""
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _jailctl jailctl
`

const zshCompletionScript = `#compdef jailctl

_jailctl() {
  local -a cmds
  cmds=(
    'list:list jails'
    'sources:list dataset sources'
    'activate:activate a pool for jail storage'
    'deactivate:deactivate the pool of the main source'
    'which:show the source a dataset belongs to'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-p --padding)'{-p,--padding}'[column padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'jailctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    list)
      _arguments -C \
        $common \
        '*'{-S,--source}'[limit to source]:source' \
        '*:filter'
      ;;
    sources)
      _arguments -C $common
      ;;
    activate)
      _arguments -C \
        '(-m --mountpoint)'{-m,--mountpoint}'[root mountpoint]:path:_directories' \
        '1:pool:($(zpool list -H -o name 2>/dev/null))'
      ;;
    which)
      _arguments '1:dataset:($(zfs list -H -o name 2>/dev/null))'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _jailctl jailctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := Writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: jailctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "jailctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
