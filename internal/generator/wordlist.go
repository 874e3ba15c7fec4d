// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package generator

// words is the fixed list memorable secrets draw from. It has 256 entries so
// that each word contributes exactly 8 bits.
var words = [...]string{
	"Acorn", "Alpine", "Amber", "Anchor", "Apple", "Arrow", "Aspen", "Atlas", "Autumn", "Badger", "Bamboo", "Banner", "Barley", "Basil", "Beacon", "Bear",
	"Birch", "Bison", "Blossom", "Boulder", "Bramble", "Breeze", "Brook", "Buffalo", "Butter", "Cactus", "Candle", "Canyon", "Carbon", "Cedar", "Cherry", "Cinder",
	"Citrus", "Clover", "Cobalt", "Comet", "Copper", "Coral", "Cotton", "Cougar", "Crane", "Crater", "Crystal", "Cypress", "Dahlia", "Daisy", "Dawn", "Delta",
	"Desert", "Dolphin", "Dove", "Dragon", "Drift", "Dune", "Eagle", "Echo", "Ember", "Emerald", "Falcon", "Feather", "Fern", "Fiddle", "Finch", "Fjord",
	"Flame", "Flint", "Forest", "Fossil", "Fox", "Frost", "Galaxy", "Garnet", "Geyser", "Ginger", "Glacier", "Globe", "Granite", "Grape", "Gravel", "Harbor",
	"Hawk", "Hazel", "Heron", "Hickory", "Honey", "Horizon", "Husky", "Iris", "Island", "Ivory", "Jade", "Jaguar", "Jasper", "Jungle", "Juniper", "Kernel",
	"Kestrel", "Kettle", "Kiwi", "Lagoon", "Lantern", "Larch", "Lark", "Lava", "Lemon", "Lily", "Lime", "Linen", "Lion", "Lotus", "Lynx", "Magnet",
	"Mango", "Maple", "Marble", "Meadow", "Mercury", "Mesa", "Meteor", "Mint", "Mirror", "Mist", "Moon", "Moss", "Mountain", "Nebula", "Nectar", "Needle",
	"Nickel", "Nova", "Oak", "Oasis", "Ocean", "Olive", "Onyx", "Opal", "Orange", "Orbit", "Orchid", "Osprey", "Otter", "Owl", "Paddle", "Panda",
	"Panther", "Papaya", "Parrot", "Pearl", "Pebble", "Pepper", "Petal", "Phoenix", "Pine", "Planet", "Plum", "Polar", "Pond", "Poppy", "Prairie", "Prism",
	"Puma", "Quartz", "Quill", "Rabbit", "Radar", "Rain", "Raven", "Reef", "Ridge", "River", "Robin", "Rocket", "Rose", "Ruby", "Saffron", "Sage",
	"Salmon", "Sand", "Sapphire", "Saturn", "Shadow", "Shell", "Sierra", "Silver", "Sky", "Slate", "Snow", "Sparrow", "Spruce", "Star", "Stone", "Storm",
	"Summit", "Sun", "Swan", "Tango", "Thistle", "Thunder", "Tiger", "Timber", "Topaz", "Torch", "Tulip", "Tundra", "Turtle", "Valley", "Velvet", "Violet",
	"Vortex", "Walnut", "Wave", "Willow", "Wind", "Winter", "Wolf", "Yarrow", "Zephyr", "Zinc", "Zebra", "Aurora", "Basalt", "Canary", "Cobra", "Denim",
	"Elm", "Fig", "Gull", "Helix", "Indigo", "Jet", "Kelp", "Lilac", "Lunar", "Mica", "Nimbus", "Ocelot", "Pixel", "Quasar", "Rapids", "Sequoia",
	"Tidal", "Umber", "Vapor", "Wren", "Yonder", "Zenith", "Bolt", "Cliff", "Creek", "Field", "Grove", "Harvest", "Marsh", "Peak", "Shore", "Spark",
}
