package kb

import "github.com/Matteo842/SaveState/internal/core"

// Built-in location templates. Emulator entries reflect each emulator's
// documented save layout across native, XDG, Flatpak and Snap installs;
// platform-agnostic entries are the conventional per-title game folders.
// Weights are the confidence of the convention itself, before any title
// match lifts them.
var builtinTemplates = []core.LocationTemplate{
	// Generic per-title locations.
	{Platform: core.PlatformAny, PathPattern: "{saved_games}/{title}", PriorityWeight: 0.5},
	{Platform: core.PlatformAny, PathPattern: "{documents}/My Games/{title}", PriorityWeight: 0.5},
	{Platform: core.PlatformAny, PathPattern: "{documents}/{title}", PriorityWeight: 0.45},
	{Platform: core.PlatformAny, PathPattern: "{appdata}/{title}", PriorityWeight: 0.45},
	{Platform: core.PlatformAny, PathPattern: "{local_appdata}/{title}", PriorityWeight: 0.45},
	{Platform: core.PlatformAny, PathPattern: "{xdg_data}/{title}", PriorityWeight: 0.45},
	{Platform: core.PlatformAny, PathPattern: "{xdg_config}/{title}", PriorityWeight: 0.45},

	// Steam / Proton.
	{Platform: core.PlatformSteam, PathPattern: "{steam_root}/steamapps/compatdata/{steam_appid}/pfx/drive_c/users/steamuser/Documents/My Games/{title}", PriorityWeight: 0.5},
	{Platform: core.PlatformSteam, PathPattern: "{steam_root}/steamapps/compatdata/{steam_appid}/pfx/drive_c/users/steamuser/AppData/Roaming/{title}", PriorityWeight: 0.45},
	{Platform: core.PlatformSteam, PathPattern: "{steam_root}/steamapps/compatdata/{steam_appid}/pfx/drive_c/users/steamuser/Saved Games/{title}", PriorityWeight: 0.5},
	{Platform: core.PlatformSteam, PathPattern: "{steam_root}/steamapps/compatdata/{steam_appid}/pfx", PriorityWeight: 0.4},

	// mGBA.
	{Platform: core.PlatformEmulator, Emulator: "mgba", PathPattern: "{xdg_data}/mgba/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "mgba", PathPattern: "{xdg_config}/mgba/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "mgba", PathPattern: "{appdata}/mGBA/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "mgba", PathPattern: "{home}/.var/app/io.mgba.mGBA/config/mgba/saves", PriorityWeight: 0.4},

	// RetroArch.
	{Platform: core.PlatformEmulator, Emulator: "retroarch", PathPattern: "{xdg_config}/retroarch/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "retroarch", PathPattern: "{appdata}/RetroArch/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "retroarch", PathPattern: "{home}/.var/app/org.libretro.RetroArch/config/retroarch/saves", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "retroarch", PathPattern: "{home}/snap/retroarch/current/.config/retroarch/saves", PriorityWeight: 0.4},

	// Dolphin.
	{Platform: core.PlatformEmulator, Emulator: "dolphin", PathPattern: "{xdg_data}/dolphin-emu/GC", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "dolphin", PathPattern: "{xdg_data}/dolphin-emu/Wii", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "dolphin", PathPattern: "{documents}/Dolphin Emulator/GC", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "dolphin", PathPattern: "{home}/.var/app/org.DolphinEmu.dolphin-emu/data/dolphin-emu/GC", PriorityWeight: 0.4},

	// PCSX2.
	{Platform: core.PlatformEmulator, Emulator: "pcsx2", PathPattern: "{xdg_config}/PCSX2/memcards", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "pcsx2", PathPattern: "{documents}/PCSX2/memcards", PriorityWeight: 0.4},

	// PPSSPP.
	{Platform: core.PlatformEmulator, Emulator: "ppsspp", PathPattern: "{xdg_config}/ppsspp/PSP/SAVEDATA", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "ppsspp", PathPattern: "{documents}/PPSSPP/PSP/SAVEDATA", PriorityWeight: 0.4},

	// DuckStation.
	{Platform: core.PlatformEmulator, Emulator: "duckstation", PathPattern: "{xdg_data}/duckstation/memcards", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "duckstation", PathPattern: "{documents}/DuckStation/memcards", PriorityWeight: 0.4},

	// Citra and its Azahar fork share a layout.
	{Platform: core.PlatformEmulator, Emulator: "citra", PathPattern: "{xdg_data}/citra-emu/sdmc", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "citra", PathPattern: "{appdata}/Citra/sdmc", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "azahar", PathPattern: "{xdg_data}/azahar-emu/sdmc", PriorityWeight: 0.4},

	// Yuzu / Ryujinx.
	{Platform: core.PlatformEmulator, Emulator: "yuzu", PathPattern: "{xdg_data}/yuzu/nand/user/save", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "yuzu", PathPattern: "{appdata}/yuzu/nand/user/save", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "ryujinx", PathPattern: "{xdg_config}/Ryujinx/bis/user/save", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "ryujinx", PathPattern: "{appdata}/Ryujinx/bis/user/save", PriorityWeight: 0.4},

	// melonDS / Flycast.
	{Platform: core.PlatformEmulator, Emulator: "melonds", PathPattern: "{xdg_data}/melonDS", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "melonds", PathPattern: "{appdata}/melonDS", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "flycast", PathPattern: "{xdg_data}/flycast", PriorityWeight: 0.4},
	{Platform: core.PlatformEmulator, Emulator: "flycast", PathPattern: "{documents}/flycast", PriorityWeight: 0.4},
}

// Built-in alias groups: regional variants and the abbreviations console
// titles commonly appear under in launcher lists and folder names.
var builtinAliasGroups = [][]string{
	{"Pokemon Emerald", "Pokemon Emerald Version", "POKEMON EMER"},
	{"Pokemon FireRed", "Pokemon FireRed Version", "POKEMON FIRE"},
	{"The Legend of Zelda: Breath of the Wild", "Zelda Breath of the Wild", "BOTW"},
	{"The Legend of Zelda: Tears of the Kingdom", "Zelda Tears of the Kingdom", "TOTK"},
	{"Grand Theft Auto V", "GTA V", "GTA 5"},
	{"Grand Theft Auto: San Andreas", "GTA San Andreas", "GTA SA"},
	{"The Elder Scrolls V: Skyrim", "Skyrim"},
	{"Final Fantasy VII Remake", "FFVII Remake", "FF7 Remake"},
	{"Resident Evil 4", "Biohazard 4"},
	{"Dragon Quest XI", "DQXI"},
	{"Metal Gear Solid V: The Phantom Pain", "MGSV", "MGS5"},
}

// Conventional names of the folder that actually holds the save files,
// usually nested one level below the game folder.
var builtinSaveSubdirs = []string{
	"Saves", "Save", "SaveGame", "Saved", "SaveGames",
	"savegame", "savedata", "save_data", "SaveData",
	"storage", "remote",
}

// Folder names a scan never descends into: system noise, vendor
// directories, launchers and cache trees.
var builtinBannedDirs = []string{
	"$recycle.bin", "system volume information", "config.msi", "perflogs",
	"windows", "system32", "syswow64", "program files", "program files (x86)",
	"programdata", "drivers", "default", "all users", "public",
	"microsoft", "nvidia corporation", "intel", "amd", "google", "mozilla",
	"common files", "internet explorer", "adobe", "python", "java", "oracle",
	"dell", "hp", "lenovo", "avast software", "avg", "kaspersky lab", "mcafee",
	"epic games", "ubisoft game launcher", "battle.net", "origin", "gog galaxy",
	"vortex", "soundtrack", "artbook", "extras", "dlc", "ost", "digital content",
	"cache", "shadercache", "gpucache", "webcache", "log", "logs",
	"crash", "crashes", "temp", "tmp",
	"node_modules", ".git", ".cache", ".trash",
}

// File name vocabulary used to notice that a directory holds save data.
var builtinSaveExtensions = []string{
	".sav", ".save", ".dat", ".bin", ".slot", ".prof", ".profile", ".usr", ".sgd",
}

var builtinSaveFileHints = []string{
	"save", "user", "profile", "slot", "progress",
}
