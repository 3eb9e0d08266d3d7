// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/meta"
)

const bashCompletionScript = `# bash completion for snaplog
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_snaplog()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff dups ls completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --dataset -d --filter -f --output -o --padding --sort -s --titles -t"

    # Determine if the optional target (first non-flag after subcommand) has
    # already been provided
    local have_target=0
    local idx=2
    while [[ $idx -lt ${#COMP_WORDS[@]} ]]; do
        local w=${COMP_WORDS[$idx]}
        if [[ $w != -* ]]; then
            have_target=1
            break
        fi
        ((idx++))
    done

    case "$cmd" in
        diff)
            local opts="$common --all --dry-run -n --explain -x --new --old --out-dir --parallel --pick -p"
            ;;
        dups)
            local opts="$common --explain -x --snapshot"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--dataset" || "$prev" == "-d" ]]; then
        return 0
    fi

    # If current token starts with '-', or we've already consumed the target, offer flags
    if [[ "$cur" == -* || $have_target -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on the (optional) target positional, complete directories
    COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _snaplog snaplog
`

const zshCompletionScript = `#compdef snaplog

_snaplog() {
  local -a cmds
  cmds=(
    'diff:compare the current snapshot against the scheduled baseline'
    'dups:list keys carried by more than one row'
    'ls:list snapshots and the pair diff would compare'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-d --dataset)'{-d,--dataset}'[configured dataset]:dataset'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '--padding[spaces between columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'snaplog commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    diff)
      _arguments -C \
        $common \
        '--all[compare every configured dataset]' \
        '(-n --dry-run)'{-n,--dry-run}'[do not write the workbook]' \
        '(-x --explain)'{-x,--explain}'[explain ambiguous keys]' \
        '--new[pin the new snapshot]:spec' \
        '--old[pin the old snapshot]:spec' \
        '--out-dir[workbook directory]:dir:_directories' \
        '--parallel[datasets compared at once]:count' \
        '(-p --pick)'{-p,--pick}'[choose snapshots interactively]' \
        '::Target:_directories'
      ;;
    dups)
      _arguments -C \
        $common \
        '(-x --explain)'{-x,--explain}'[explain duplicated rows]' \
        '--snapshot[snapshot to check]:spec' \
        '::Target:_directories'
      ;;
    ls)
      _arguments -C \
        $common \
        '::Target:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _snaplog snaplog
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: snaplog completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "snaplog completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
