package config

// DefaultConfig is the template written by the init command.
const DefaultConfig = `# hoard configuration
#
# Declare environments describing your machines, then hoards mapping
# environment expressions to the paths they live at on each machine.
#
# exclusivity = [["neovim", "vim"]]
#
# [envs.linux]
#     os = ["linux"]
#
# [envs.laptop]
#     hostname = ["my-laptop"]
#
# [hoards.vim]
#     "linux" = "${HOME}/.vimrc"
#     "linux.laptop" = "${HOME}/.vimrc-laptop"
#
# [hoards.shell.bashrc]
#     "linux" = "${HOME}/.bashrc"

[envs]

[hoards]
`
