package venn

// Layout coordinates use a 1000x1000 box with the origin at the bottom-left;
// rendering flips the y axis. The tables are hand-tuned and not derived.
//
// Sources: pyvenn (https://github.com/tctianchi/pyvenn) for 2 to 5 sets, and
// HPL-2000-73 for the 6-set triangles.
var layouts = map[int]Layout{
	2: {
		Shapes: []Shape{
			ellipse(375, 300, 500, 500, 0),
			ellipse(625, 300, 500, 500, 0),
		},
		Regions: map[uint]Point{
			0b01: {740, 300},
			0b10: {260, 300},
			0b11: {500, 300},
		},
		Names: []NameAnchor{
			{Point{200, 560}, AnchorBottomRight},
			{Point{800, 560}, AnchorBottomLeft},
		},
	},
	3: {
		Shapes: []Shape{
			ellipse(333, 633, 500, 500, 0),
			ellipse(666, 633, 500, 500, 0),
			ellipse(500, 310, 500, 500, 0),
		},
		Regions: map[uint]Point{
			0b001: {500, 270},
			0b010: {730, 650},
			0b011: {610, 460},
			0b100: {270, 650},
			0b101: {390, 460},
			0b110: {500, 650},
			0b111: {500, 510},
		},
		Names: []NameAnchor{
			{Point{150, 870}, AnchorBottomRight},
			{Point{850, 870}, AnchorBottomLeft},
			{Point{500, 20}, AnchorTopMiddle},
		},
	},
	4: {
		Shapes: []Shape{
			ellipse(350, 400, 720, 450, 140),
			ellipse(450, 500, 720, 450, 140),
			ellipse(544, 500, 720, 450, 40),
			ellipse(644, 400, 720, 450, 40),
		},
		Regions: map[uint]Point{
			0b0001: {850, 420},
			0b0010: {680, 720},
			0b0011: {770, 590},
			0b0100: {320, 720},
			0b0101: {710, 300},
			0b0110: {500, 660},
			0b0111: {650, 500},
			0b1000: {140, 420},
			0b1001: {500, 170},
			0b1010: {290, 300},
			0b1011: {390, 240},
			0b1100: {230, 590},
			0b1101: {610, 240},
			0b1110: {350, 500},
			0b1111: {500, 380},
		},
		Names: []NameAnchor{
			{Point{130, 180}, AnchorMiddleLeft},
			{Point{180, 830}, AnchorBottomRight},
			{Point{820, 830}, AnchorBottomLeft},
			{Point{870, 180}, AnchorTopLeft},
		},
	},
	5: {
		Shapes: []Shape{
			ellipse(428, 449, 870, 500, 155),
			ellipse(469, 543, 870, 500, 82),
			ellipse(558, 523, 870, 500, 10),
			ellipse(578, 432, 870, 500, 118),
			ellipse(489, 383, 870, 500, 46),
		},
		Regions: map[uint]Point{
			0b00001: {270, 110},
			0b00010: {720, 110},
			0b00011: {550, 130},
			0b00100: {910, 580},
			0b00101: {780, 640},
			0b00110: {840, 410},
			0b00111: {760, 550},
			0b01000: {510, 900},
			0b01001: {390, 150},
			0b01010: {420, 780},
			0b01011: {500, 150},
			0b01100: {670, 760},
			0b01101: {700, 710},
			0b01110: {510, 740},
			0b01111: {640, 670},
			0b10000: {100, 610},
			0b10001: {200, 310},
			0b10010: {760, 250},
			0b10011: {650, 230},
			0b10100: {180, 500},
			0b10101: {210, 370},
			0b10110: {810, 370},
			0b10111: {740, 400},
			0b11000: {270, 700},
			0b11001: {340, 250},
			0b11010: {330, 720},
			0b11011: {510, 220},
			0b11100: {250, 580},
			0b11101: {280, 390},
			0b11110: {360, 660},
			0b11111: {510, 470},
		},
		Names: []NameAnchor{
			{Point{20, 720}, AnchorMiddleLeft},
			{Point{720, 940}, AnchorBottomMiddle},
			{Point{970, 740}, AnchorMiddleRight},
			{Point{880, 50}, AnchorTopRight},
			{Point{120, 50}, AnchorTopLeft},
		},
	},
	6: {
		Shapes: []Shape{
			triangle(637, 921, 649, 274, 188, 667),
			triangle(981, 769, 335, 191, 393, 671),
			triangle(941, 397, 292, 475, 456, 747),
			triangle(662, 119, 316, 548, 662, 700),
			triangle(309, 81, 374, 718, 681, 488),
			triangle(16, 626, 726, 687, 522, 327),
		},
		Regions: map[uint]Point{
			0b000001: {212, 562},
			0b000010: {430, 249},
			0b000011: {356, 444},
			0b000100: {609, 255},
			0b000101: {323, 546},
			0b000110: {513, 316},
			0b000111: {523, 348},
			0b001000: {747, 458},
			0b001001: {325, 492},
			0b001010: {670, 481},
			0b001011: {359, 478},
			0b001100: {653, 444},
			0b001101: {344, 526},
			0b001110: {653, 466},
			0b001111: {363, 503},
			0b010000: {750, 616},
			0b010001: {682, 654},
			0b010010: {402, 310},
			0b010011: {392, 421},
			0b010100: {653, 691},
			0b010101: {651, 644},
			0b010110: {490, 340},
			0b010111: {468, 399},
			0b011000: {692, 545},
			0b011001: {666, 592},
			0b011010: {665, 496},
			0b011011: {374, 470},
			0b011100: {653, 537},
			0b011101: {652, 579},
			0b011110: {653, 488},
			0b011111: {389, 486},
			0b100000: {553, 806},
			0b100001: {313, 604},
			0b100010: {388, 694},
			0b100011: {375, 633},
			0b100100: {605, 359},
			0b100101: {334, 555},
			0b100110: {582, 397},
			0b100111: {542, 372},
			0b101000: {468, 708},
			0b101001: {355, 572},
			0b101010: {420, 679},
			0b101011: {375, 597},
			0b101100: {641, 436},
			0b101101: {348, 538},
			0b101110: {635, 453},
			0b101111: {370, 548},
			0b110000: {594, 689},
			0b110001: {579, 670},
			0b110010: {398, 670},
			0b110011: {395, 653},
			0b110100: {633, 682},
			0b110101: {616, 656},
			0b110110: {587, 427},
			0b110111: {526, 415},
			0b111000: {495, 677},
			0b111001: {505, 648},
			0b111010: {428, 663},
			0b111011: {430, 631},
			0b111100: {639, 524},
			0b111101: {591, 604},
			0b111110: {622, 477},
			0b111111: {501, 523},
		},
		Names: []NameAnchor{
			{Point{674, 824}, AnchorCenter},
			{Point{747, 751}, AnchorCenter},
			{Point{739, 396}, AnchorCenter},
			{Point{700, 247}, AnchorCenter},
			{Point{291, 255}, AnchorCenter},
			{Point{203, 484}, AnchorCenter},
		},
	},
}
