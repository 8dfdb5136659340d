package mod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createBlacklistCommands creates the /mod blacklist add|remove|list subcommands
func createBlacklistCommands() []*discord.Command {
	add := discord.NewCommand(
		"add",
		"Añade un usuario a la blacklist del servidor",
		"mod",
		blacklistAddHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario a bloquear",
			Required:    true,
		},
		reasonOption(true),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		RequiresModerator()

	remove := discord.NewCommand(
		"remove",
		"Quita un usuario de la blacklist del servidor",
		"mod",
		blacklistRemoveHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID del usuario bloqueado",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithAutoComplete(blacklistAutoComplete).
		RequiresModerator()

	list := discord.NewCommand(
		"list",
		"Muestra la blacklist del servidor",
		"mod",
		blacklistListHandler,
	).WithUserPermissions(discordgo.PermissionBanMembers).
		RequiresModerator()

	return []*discord.Command{add, remove, list}
}

func blacklistAddHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Blacklist", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		userID := ctx.GetStringOption("id")
		if !snowflake.MatchString(userID) {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "id"}
		}
		block, err := mod.Blacklist.Add(rctx, ctx.Interaction.GuildID, userID, ctx.GetStringOption("razon"), ctx.User().ID)
		if err != nil {
			return nil, err
		}

		// enforce right away when the user is already inside
		if member, err := ctx.Client.Host().Member(rctx, ctx.Interaction.GuildID, userID); err == nil && member != nil {
			if _, err := mod.Blacklist.OnMemberJoin(rctx, member); err != nil {
				return &discordgo.MessageEmbed{
					Title:       "⛔ Usuario bloqueado",
					Description: fmt.Sprintf("<@%s> fue añadido a la blacklist, pero no se pudo sancionar: %s", userID, ErrorMessage(err)),
					Color:       colorWarning,
				}, nil
			}
		}

		return &discordgo.MessageEmbed{
			Title: "⛔ Usuario bloqueado",
			Description: fmt.Sprintf("<@%s> (`%s`) fue añadido a la blacklist.\n\n> **Razón:** %s\n> **Bloqueo:** #%d\n> **Moderador:** <@%s>",
				block.UserID, block.UserID, block.Reason, block.BlockNumber, block.BlockedBy),
			Color:     colorError,
			Timestamp: time.Now().Format(time.RFC3339),
		}, nil
	})
}

func blacklistRemoveHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Blacklist", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		userID := ctx.GetStringOption("id")
		if userID == "" {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "id"}
		}
		block, err := mod.Blacklist.Remove(rctx, ctx.Interaction.GuildID, userID)
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{
			Title:       "✅ Usuario desbloqueado",
			Description: fmt.Sprintf("<@%s> fue retirado de la blacklist.\n\n> **Razón original:** %s", block.UserID, block.Reason),
			Color:       colorSuccess,
			Timestamp:   time.Now().Format(time.RFC3339),
		}, nil
	})
}

func blacklistListHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Blacklist", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		blocks, err := mod.Blacklist.GetAll(rctx, ctx.Interaction.GuildID)
		if err != nil {
			return nil, err
		}
		return blacklistEmbed(blocks), nil
	})
}

// blacklistEmbed renders the block list of a guild
func blacklistEmbed(blocks []moderator.BlockRecord) *discordgo.MessageEmbed {
	if len(blocks) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "📋 Blacklist del servidor",
			Description: "No hay usuarios en la blacklist.",
			Color:       colorInfo,
		}
	}
	var b strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&b, "> **#%d** <@%s> (`%s`)\n> **Razón:** %s\n\n", block.BlockNumber, block.UserID, block.UserID, block.Reason)
	}
	fmt.Fprintf(&b, "> 💫 - **Usuarios bloqueados:** %d", len(blocks))
	return &discordgo.MessageEmbed{
		Title:       "📋 Blacklist del servidor",
		Description: b.String(),
		Color:       colorInfo,
	}
}

// blacklistAutoComplete suggests blocked users for /mod blacklist remove
func blacklistAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		mod := ctx.Mod()
		if mod == nil {
			return
		}
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		blocks, err := mod.Blacklist.GetAll(rctx, ctx.Interaction.GuildID)
		if err != nil {
			return
		}
		ctx.SendAutoCompleteChoices(blockChoices(blocks, ctx.GetStringOption("id")))
	}()
}

// blockChoices filters blocks by the typed prefix, at most 25 entries
func blockChoices(blocks []moderator.BlockRecord, typed string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, block := range blocks {
		if len(choices) == 25 {
			break
		}
		if typed != "" && !strings.HasPrefix(block.UserID, typed) {
			continue
		}
		name := fmt.Sprintf("%s - Razón: %s", block.UserID, block.Reason)
		if len(name) > 100 {
			name = name[:97] + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: block.UserID,
		})
	}
	return choices
}
